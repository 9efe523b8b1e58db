package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/formlogic/formlogic/pkg/formlogic"
)

// FromFile loads a survey definition from a file, auto-detecting
// format by extension. Supported extensions: .yaml, .yml, .json
func FromFile(path string) (*formlogic.Survey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read survey file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return nil, fmt.Errorf("unsupported survey file extension: %s", ext)
	}
}

// rawSurvey keeps triggers as loose maps so the loader can accept the
// aliases different authoring tools emit for trigger fields.
type rawSurvey struct {
	Name        string            `yaml:"name" json:"name"`
	Title       string            `yaml:"title" json:"title"`
	Description string            `yaml:"description" json:"description"`
	Pages       []*formlogic.Page `yaml:"pages" json:"pages"`
	Triggers    []map[string]any  `yaml:"triggers" json:"triggers"`
}

// FromYAML parses a YAML survey definition and validates it.
func FromYAML(data []byte) (*formlogic.Survey, error) {
	var raw rawSurvey
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return finish(&raw)
}

// FromJSON parses a JSON survey definition and validates it.
func FromJSON(data []byte) (*formlogic.Survey, error) {
	var raw rawSurvey
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return finish(&raw)
}

func finish(raw *rawSurvey) (*formlogic.Survey, error) {
	survey := &formlogic.Survey{
		Name:        raw.Name,
		Title:       raw.Title,
		Description: raw.Description,
		Pages:       raw.Pages,
	}
	for i, entry := range raw.Triggers {
		trig, err := decodeTrigger(New(entry))
		if err != nil {
			return nil, fmt.Errorf("trigger %d: %w", i, err)
		}
		survey.Triggers = append(survey.Triggers, trig)
	}
	if err := survey.Validate(); err != nil {
		return nil, err
	}
	return survey, nil
}

// decodeTrigger builds a trigger from a loose property map. Trigger
// types are matched case-insensitively and the expression field of a
// runexpression trigger may be spelled runExpression or expression.
func decodeTrigger(props Properties) (*formlogic.TriggerDef, error) {
	typ := formlogic.TriggerType(strings.ToLower(props.String("type", "")))
	trig := &formlogic.TriggerDef{
		Type:      typ,
		Condition: props.String("condition", ""),
	}

	switch typ {
	case formlogic.TriggerComplete:

	case formlogic.TriggerSetValue:
		trig.SetToName = props.String("setToName", "")
		trig.SetValue = props.Any("setValue", nil)
		if trig.SetToName == "" {
			return nil, fmt.Errorf("setvalue trigger requires setToName")
		}

	case formlogic.TriggerCopyValue:
		trig.FromName = props.String("fromName", "")
		trig.ToName = props.String("toName", "")
		if trig.FromName == "" || trig.ToName == "" {
			return nil, fmt.Errorf("copyvalue trigger requires fromName and toName")
		}

	case formlogic.TriggerRunExpression:
		trig.Expression = props.String("runExpression", props.String("expression", ""))
		trig.ResultName = props.String("resultName", props.String("setToName", ""))
		if trig.Expression == "" {
			return nil, fmt.Errorf("runexpression trigger requires an expression")
		}

	case formlogic.TriggerSkip:
		trig.GotoName = props.String("gotoName", "")
		if trig.GotoName == "" {
			return nil, fmt.Errorf("skip trigger requires gotoName")
		}

	default:
		return nil, fmt.Errorf("unknown trigger type %q", props.String("type", ""))
	}
	return trig, nil
}
