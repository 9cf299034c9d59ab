package jobs

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("job not found")
	ErrIllegalTransition = errors.New("illegal status transition")
)

type Repo struct {
	DB *gorm.DB
}

func (r *Repo) Create(j *Job) error {
	return r.DB.Create(j).Error
}

func (r *Repo) Get(id string) (*Job, error) {
	var j Job
	err := r.DB.Where("id = ?", id).First(&j).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

// ListQueued returns every queued job in creation order. Recovery feeds
// these back into a fresh local dispatch backend after a restart.
func (r *Repo) ListQueued() ([]Job, error) {
	var out []Job
	err := r.DB.
		Where("status = ?", StatusQueued).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// List returns one page of jobs, newest first, optionally filtered by
// status. page is 1-based.
func (r *Repo) List(page, size int, status Status) ([]Job, int64, error) {
	q := r.DB.Model(&Job{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []Job
	err := q.
		Order("created_at desc").
		Offset((page - 1) * size).
		Limit(size).
		Find(&out).Error
	return out, total, err
}

// MarkProcessing moves a queued job to processing. The WHERE clause carries
// the expected current status, so a job already past queued is untouched
// and the call reports an illegal transition.
func (r *Repo) MarkProcessing(id string, progress int) error {
	res := r.DB.Model(&Job{}).
		Where("id = ? AND status = ?", id, StatusQueued).
		Updates(map[string]any{"status": StatusProcessing, "progress": progress})
	return r.transitionResult(res, id)
}

// SetProgress raises progress on a processing job. Guarded so progress
// never decreases and terminal records are never touched.
func (r *Repo) SetProgress(id string, progress int) error {
	return r.DB.Model(&Job{}).
		Where("id = ? AND status = ? AND progress <= ?", id, StatusProcessing, progress).
		Update("progress", progress).Error
}

// DoneResult carries everything a completed job persists in one write.
type DoneResult struct {
	OutputChecksum string
	BlobPath       string
	VectorDim      int
	ChunkCount     int
	ModelID        string
}

func (r *Repo) MarkDone(id string, res DoneResult) error {
	tx := r.DB.Model(&Job{}).
		Where("id = ? AND status = ?", id, StatusProcessing).
		Updates(map[string]any{
			"status":          StatusDone,
			"progress":        100,
			"output_checksum": res.OutputChecksum,
			"blob_path":       res.BlobPath,
			"vector_dim":      res.VectorDim,
			"chunk_count":     res.ChunkCount,
			"model_id":        res.ModelID,
		})
	return r.transitionResult(tx, id)
}

// MarkFailed records the error text and leaves progress at its last value.
// No result field is ever populated on this path.
func (r *Repo) MarkFailed(id string, errMsg string) error {
	res := r.DB.Model(&Job{}).
		Where("id = ? AND status = ?", id, StatusProcessing).
		Updates(map[string]any{"status": StatusFailed, "error_message": errMsg})
	return r.transitionResult(res, id)
}

func (r *Repo) transitionResult(res *gorm.DB, id string) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.Get(id); err != nil {
			return err
		}
		return fmt.Errorf("%w: job %s", ErrIllegalTransition, id)
	}
	return nil
}
