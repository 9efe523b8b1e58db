// Package store provides persistent storage for survey definitions and
// submissions.
package store

import (
	"errors"
	"time"
)

// Store persists survey definitions and submissions.
// Implementations must be safe for concurrent use.
type Store interface {
	// SaveDefinition stores a survey definition document under its
	// name. Overwrites an existing definition with the same name.
	SaveDefinition(name string, data []byte) error

	// LoadDefinition retrieves a survey definition document.
	// Returns ErrNotFound if no definition exists under the name.
	LoadDefinition(name string) ([]byte, error)

	// ListDefinitions returns the stored definition names, sorted.
	// Returns empty slice (not error) when the store is empty.
	ListDefinitions() ([]string, error)

	// SaveSubmission stores a submission snapshot.
	// Overwrites if a submission with the same ID already exists, so
	// in-progress sessions can be persisted repeatedly for resume.
	SaveSubmission(sub *Submission) error

	// LoadSubmission retrieves a submission by ID.
	// Returns ErrNotFound if the submission doesn't exist.
	LoadSubmission(id string) (*Submission, error)

	// ListSubmissions returns metadata for every submission of a
	// survey, ordered by last update.
	// Returns empty slice (not error) if the survey has none.
	ListSubmissions(survey string) ([]Info, error)

	// DeleteSubmission removes a submission.
	// Returns nil if the submission doesn't exist.
	DeleteSubmission(id string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides submission metadata without loading the answers.
type Info struct {
	ID        string
	Survey    string
	Complete  bool
	UpdatedAt time.Time
	Size      int64
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a definition or submission doesn't exist.
	ErrNotFound = errors.New("store: not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("store: closed")
)
