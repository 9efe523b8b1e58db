package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlogic/formlogic/pkg/formlogic/store"
)

// storeFactory creates a store instance for testing.
type storeFactory func(t *testing.T) store.Store

// storeContractTest runs contract tests against any Store implementation.
func storeContractTest(t *testing.T, name string, factory storeFactory) {
	t.Run(name+"/Definition_SaveAndLoad", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		data := []byte("name: intake\npages: []\n")
		require.NoError(t, s.SaveDefinition("intake", data))

		loaded, err := s.LoadDefinition("intake")
		require.NoError(t, err)
		assert.Equal(t, data, loaded)
	})

	t.Run(name+"/Definition_NotFound", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		_, err := s.LoadDefinition("nonexistent")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run(name+"/Definition_Overwrite", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		require.NoError(t, s.SaveDefinition("intake", []byte("first")))
		require.NoError(t, s.SaveDefinition("intake", []byte("second")))

		loaded, err := s.LoadDefinition("intake")
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), loaded)
	})

	t.Run(name+"/Definition_ListSorted", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		names, err := s.ListDefinitions()
		require.NoError(t, err)
		assert.Empty(t, names)

		require.NoError(t, s.SaveDefinition("zeta", []byte("z")))
		require.NoError(t, s.SaveDefinition("alpha", []byte("a")))

		names, err = s.ListDefinitions()
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "zeta"}, names)
	})

	t.Run(name+"/Submission_SaveAndLoad", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		sub := store.NewSubmission("sub-1", "intake", map[string]any{
			"age":    float64(30),
			"source": "Friend",
		})
		require.NoError(t, s.SaveSubmission(sub))

		loaded, err := s.LoadSubmission("sub-1")
		require.NoError(t, err)
		assert.Equal(t, "intake", loaded.Survey)
		assert.Equal(t, float64(30), loaded.Answers["age"])
		assert.Equal(t, "Friend", loaded.Answers["source"])
		assert.False(t, loaded.Complete)
	})

	t.Run(name+"/Submission_NotFound", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		_, err := s.LoadSubmission("nonexistent")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run(name+"/Submission_OverwriteForResume", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		sub := store.NewSubmission("sub-1", "intake", map[string]any{"age": float64(20)})
		require.NoError(t, s.SaveSubmission(sub))

		sub.Answers["age"] = float64(21)
		sub.MarkComplete()
		require.NoError(t, s.SaveSubmission(sub))

		loaded, err := s.LoadSubmission("sub-1")
		require.NoError(t, err)
		assert.Equal(t, float64(21), loaded.Answers["age"])
		assert.True(t, loaded.Complete)
	})

	t.Run(name+"/Submission_ListBySurvey", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		infos, err := s.ListSubmissions("intake")
		require.NoError(t, err)
		assert.Empty(t, infos)

		a := store.NewSubmission("sub-a", "intake", nil)
		time.Sleep(10 * time.Millisecond) // Ensure different timestamps
		b := store.NewSubmission("sub-b", "intake", nil)
		other := store.NewSubmission("sub-x", "other", nil)
		require.NoError(t, s.SaveSubmission(a))
		require.NoError(t, s.SaveSubmission(b))
		require.NoError(t, s.SaveSubmission(other))

		infos, err = s.ListSubmissions("intake")
		require.NoError(t, err)
		require.Len(t, infos, 2)
		assert.Equal(t, "sub-a", infos[0].ID)
		assert.Equal(t, "sub-b", infos[1].ID)
		assert.Equal(t, "intake", infos[0].Survey)
	})

	t.Run(name+"/Submission_Delete", func(t *testing.T) {
		s := factory(t)
		defer s.Close()

		require.NoError(t, s.SaveSubmission(store.NewSubmission("sub-1", "intake", nil)))
		require.NoError(t, s.DeleteSubmission("sub-1"))

		_, err := s.LoadSubmission("sub-1")
		assert.ErrorIs(t, err, store.ErrNotFound)

		// Deleting again is not an error.
		assert.NoError(t, s.DeleteSubmission("sub-1"))
	})

	t.Run(name+"/Closed", func(t *testing.T) {
		s := factory(t)
		require.NoError(t, s.Close())

		assert.ErrorIs(t, s.SaveDefinition("x", nil), store.ErrStoreClosed)
		_, err := s.LoadDefinition("x")
		assert.ErrorIs(t, err, store.ErrStoreClosed)
		assert.ErrorIs(t, s.SaveSubmission(store.NewSubmission("s", "x", nil)), store.ErrStoreClosed)
		_, err = s.ListSubmissions("x")
		assert.ErrorIs(t, err, store.ErrStoreClosed)
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	storeContractTest(t, "memory", func(t *testing.T) store.Store {
		return store.NewMemoryStore()
	})
}

func TestSQLiteStore_Contract(t *testing.T) {
	storeContractTest(t, "sqlite", func(t *testing.T) store.Store {
		s, err := store.NewSQLiteStore(":memory:")
		require.NoError(t, err)
		return s
	})
}

// TestMemoryStore_Isolation tests that stored submissions do not share
// state with the caller.
func TestMemoryStore_Isolation(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()

	answers := map[string]any{"age": float64(30)}
	require.NoError(t, s.SaveSubmission(store.NewSubmission("sub-1", "intake", answers)))

	answers["age"] = float64(99)
	loaded, err := s.LoadSubmission("sub-1")
	require.NoError(t, err)
	assert.Equal(t, float64(30), loaded.Answers["age"])
}

// TestSubmission_MarshalRoundTrip tests the persisted JSON form.
func TestSubmission_MarshalRoundTrip(t *testing.T) {
	sub := store.NewSubmission("sub-1", "intake", map[string]any{"age": float64(30)})
	sub.MarkComplete()

	data, err := sub.Marshal()
	require.NoError(t, err)

	back, err := store.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, store.Version, back.Version)
	assert.Equal(t, sub.ID, back.ID)
	assert.True(t, back.Complete)
	assert.Equal(t, float64(30), back.Answers["age"])
}
