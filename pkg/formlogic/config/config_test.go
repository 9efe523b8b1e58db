package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlogic/formlogic/pkg/formlogic"
)

// TestProperties_String tests string extraction with defaults.
func TestProperties_String(t *testing.T) {
	p := New(map[string]any{"name": "age", "count": 3})
	assert.Equal(t, "age", p.String("name", "x"))
	assert.Equal(t, "x", p.String("missing", "x"))
	assert.Equal(t, "x", p.String("count", "x")) // wrong type
}

// TestProperties_Bool tests bool extraction.
func TestProperties_Bool(t *testing.T) {
	p := New(map[string]any{"on": true, "name": "yes"})
	assert.True(t, p.Bool("on", false))
	assert.False(t, p.Bool("missing", false))
	assert.True(t, p.Bool("name", true)) // wrong type falls back
}

// TestProperties_Int tests int extraction and float conversion rules.
func TestProperties_Int(t *testing.T) {
	p := New(map[string]any{
		"a": 3,
		"b": int64(4),
		"c": 5.0,
		"d": 5.5,
	})
	assert.Equal(t, 3, p.Int("a", -1))
	assert.Equal(t, 4, p.Int("b", -1))
	assert.Equal(t, 5, p.Int("c", -1))
	assert.Equal(t, -1, p.Int("d", -1)) // fractional part
	assert.Equal(t, -1, p.Int("missing", -1))
}

// TestProperties_Float tests float extraction.
func TestProperties_Float(t *testing.T) {
	p := New(map[string]any{"a": 1.5, "b": 2, "c": int64(3)})
	assert.Equal(t, 1.5, p.Float("a", 0))
	assert.Equal(t, 2.0, p.Float("b", 0))
	assert.Equal(t, 3.0, p.Float("c", 0))
	assert.Equal(t, 9.0, p.Float("missing", 9))
}

// TestProperties_StringSlice tests list extraction.
func TestProperties_StringSlice(t *testing.T) {
	p := New(map[string]any{
		"tags":  []any{"a", "b"},
		"typed": []string{"c"},
		"mixed": []any{"a", 1},
	})
	assert.Equal(t, []string{"a", "b"}, p.StringSlice("tags", nil))
	assert.Equal(t, []string{"c"}, p.StringSlice("typed", nil))
	assert.Nil(t, p.StringSlice("mixed", nil))
	assert.Equal(t, []string{"z"}, p.StringSlice("missing", []string{"z"}))
}

// TestProperties_Nil tests that a nil map behaves as empty.
func TestProperties_Nil(t *testing.T) {
	p := New(nil)
	assert.False(t, p.Has("anything"))
	assert.Equal(t, "d", p.String("anything", "d"))
	assert.NotNil(t, p.Raw())
}

const intakeYAML = `
name: intake
title: "Intake {year}"
pages:
  - name: about
    questions:
      - name: age
      - name: drink
        visibleIf: "{age} >= 18"
      - name: sameAddress
      - name: homeAddress
      - name: billingAddress
triggers:
  - type: copyvalue
    condition: "{sameAddress} = true"
    fromName: homeAddress
    toName: billingAddress
  - type: COMPLETE
    condition: "{age} > 0"
`

// TestFromYAML tests decoding a full definition including triggers.
func TestFromYAML(t *testing.T) {
	survey, err := FromYAML([]byte(intakeYAML))
	require.NoError(t, err)

	assert.Equal(t, "intake", survey.Name)
	assert.Equal(t, "Intake {year}", survey.Title)
	require.Len(t, survey.Pages, 1)
	require.Len(t, survey.Pages[0].Questions, 5)
	assert.Equal(t, "{age} >= 18", survey.Pages[0].Questions[1].VisibleIf)

	require.Len(t, survey.Triggers, 2)
	assert.Equal(t, formlogic.TriggerCopyValue, survey.Triggers[0].Type)
	assert.Equal(t, "homeAddress", survey.Triggers[0].FromName)
	assert.Equal(t, "billingAddress", survey.Triggers[0].ToName)
	// Types are matched case-insensitively.
	assert.Equal(t, formlogic.TriggerComplete, survey.Triggers[1].Type)
}

// TestFromJSON tests the JSON form and trigger field aliases.
func TestFromJSON(t *testing.T) {
	data := []byte(`{
		"name": "calc",
		"pages": [{
			"name": "p",
			"questions": [{"name": "score"}, {"name": "bonus"}]
		}],
		"triggers": [{
			"type": "runexpression",
			"condition": "{score} > 0",
			"expression": "{score} * 2",
			"setToName": "bonus"
		}]
	}`)
	survey, err := FromJSON(data)
	require.NoError(t, err)

	require.Len(t, survey.Triggers, 1)
	trig := survey.Triggers[0]
	assert.Equal(t, formlogic.TriggerRunExpression, trig.Type)
	assert.Equal(t, "{score} * 2", trig.Expression)
	// setToName is accepted as the alias for resultName.
	assert.Equal(t, "bonus", trig.ResultName)
}

// TestFromYAML_Invalid tests loader error paths.
func TestFromYAML_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{"malformed yaml", "name: [unclosed"},
		{"unnamed page", "name: s\npages:\n  - title: no name\n"},
		{"unknown trigger type", "name: s\npages:\n  - name: p\ntriggers:\n  - type: explode\n"},
		{"copyvalue missing toName", "name: s\npages:\n  - name: p\ntriggers:\n  - type: copyvalue\n    fromName: a\n"},
		{"setvalue missing setToName", "name: s\npages:\n  - name: p\ntriggers:\n  - type: setvalue\n    setValue: 1\n"},
		{"skip missing gotoName", "name: s\npages:\n  - name: p\ntriggers:\n  - type: skip\n"},
		{"runexpression missing expression", "name: s\npages:\n  - name: p\ntriggers:\n  - type: runexpression\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromYAML([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

// TestFromFile tests extension-based dispatch.
func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "survey.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(intakeYAML), 0o644))
	survey, err := FromFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "intake", survey.Name)

	jsonPath := filepath.Join(dir, "survey.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"name":"j","pages":[{"name":"p"}]}`), 0o644))
	survey, err = FromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "j", survey.Name)

	_, err = FromFile(filepath.Join(dir, "survey.toml"))
	assert.Error(t, err)

	_, err = FromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

// TestFromYAML_RoundTripSession tests that a loaded survey drives a
// session end to end.
func TestFromYAML_RoundTripSession(t *testing.T) {
	survey, err := FromYAML([]byte(intakeYAML))
	require.NoError(t, err)

	session, err := formlogic.NewSession(survey)
	require.NoError(t, err)

	require.NoError(t, session.SetValue("age", 21))
	assert.True(t, session.IsVisible("drink"))

	require.NoError(t, session.SetValue("homeAddress", "12 Elm St"))
	require.NoError(t, session.SetValue("sameAddress", true))
	assert.Equal(t, "12 Elm St", session.Value("billingAddress").Interface())
}
