package jobs

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusFailed     Status = "failed"
)

// Valid reports whether s is one of the four known states.
func (s Status) Valid() bool {
	switch s {
	case StatusQueued, StatusProcessing, StatusDone, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is legal from s.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// CanTransitionTo encodes the only legal edges:
// queued -> processing -> {done | failed}. A record never reverts.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusQueued:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusDone || next == StatusFailed
	}
	return false
}

// Job is one unit of submitted work. Records are append-only: the core
// creates and mutates them but never deletes.
type Job struct {
	ID     string `gorm:"primaryKey;type:text" json:"job_id"`
	Status Status `gorm:"not null;default:'queued'" json:"status"`

	// Progress is 0-100 and non-decreasing for the life of a job. It is
	// observability only; nothing may schedule off it.
	Progress int `gorm:"not null;default:0" json:"progress"`

	InputChecksum  string `gorm:"type:varchar(64);not null" json:"input_checksum"`
	OutputChecksum string `gorm:"type:varchar(64)" json:"output_checksum,omitempty"`
	BlobPath       string `gorm:"type:text" json:"blob_path,omitempty"`
	VectorDim      int    `json:"vector_dim,omitempty"`
	ChunkCount     int    `json:"chunk_count,omitempty"`
	ModelID        string `gorm:"type:text" json:"model_id,omitempty"`

	ErrorMessage string `gorm:"type:text" json:"error_message,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func New(inputChecksum string) *Job {
	return &Job{
		ID:            uuid.NewString(),
		Status:        StatusQueued,
		Progress:      0,
		InputChecksum: inputChecksum,
		CreatedAt:     time.Now().UTC(),
	}
}
