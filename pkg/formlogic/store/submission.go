package store

import (
	"encoding/json"
	"time"
)

// Version is the current submission format version.
// Increment when making breaking changes to the submission structure.
const Version = 1

// Submission is the persisted snapshot of one survey-taking session:
// the answers as exported by Session.Answers plus enough metadata to
// resume or review it.
type Submission struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	Survey    string    `json:"survey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Complete marks a submission that passed completion validation.
	// Incomplete submissions are in-progress snapshots.
	Complete bool `json:"complete"`

	Answers map[string]any `json:"answers"`
}

// NewSubmission creates an in-progress submission snapshot.
func NewSubmission(id, survey string, answers map[string]any) *Submission {
	now := time.Now().UTC()
	return &Submission{
		Version:   Version,
		ID:        id,
		Survey:    survey,
		CreatedAt: now,
		UpdatedAt: now,
		Answers:   answers,
	}
}

// MarkComplete flags the submission as finished and bumps UpdatedAt.
func (s *Submission) MarkComplete() *Submission {
	s.Complete = true
	s.UpdatedAt = time.Now().UTC()
	return s
}

// Marshal serializes a submission to JSON.
func (s *Submission) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal deserializes a submission from JSON.
func Unmarshal(data []byte) (*Submission, error) {
	var s Submission
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
