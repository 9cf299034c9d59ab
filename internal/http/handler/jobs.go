package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"embedq/internal/blob"
	"embedq/internal/dispatch"
	"embedq/internal/jobs"

	"github.com/go-chi/chi/v5"
)

// maxUploadBytes caps one submission; anything larger is a boundary error.
const maxUploadBytes = 64 << 20

type JobHandler struct {
	Repo    *jobs.Repo
	Inputs  *blob.Store
	Outputs *blob.Store
	Backend dispatch.Backend
}

type jobDTO struct {
	JobID          string    `json:"job_id"`
	Status         string    `json:"status"`
	Progress       int       `json:"progress"`
	Filename       string    `json:"filename,omitempty"`
	InputChecksum  string    `json:"input_checksum"`
	OutputChecksum string    `json:"output_checksum,omitempty"`
	VectorDim      int       `json:"vector_dim,omitempty"`
	ChunkCount     int       `json:"chunk_count,omitempty"`
	ModelID        string    `json:"model_id,omitempty"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func toDTO(j *jobs.Job) jobDTO {
	return jobDTO{
		JobID:          j.ID,
		Status:         string(j.Status),
		Progress:       j.Progress,
		InputChecksum:  j.InputChecksum,
		OutputChecksum: j.OutputChecksum,
		VectorDim:      j.VectorDim,
		ChunkCount:     j.ChunkCount,
		ModelID:        j.ModelID,
		ErrorMessage:   j.ErrorMessage,
		CreatedAt:      j.CreatedAt,
	}
}

// Submit accepts document bytes (multipart field "file", or a raw body),
// stores the input blob, creates a queued job and enqueues its id.
// Resubmitting identical bytes dedups the blob but always creates a new
// job.
func (h *JobHandler) Submit(w http.ResponseWriter, r *http.Request) {
	content, filename, err := readUpload(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	checksum, err := h.Inputs.Put(content)
	if err != nil {
		log.Printf("submit: store input: %v\n", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	job := jobs.New(checksum)
	if err := h.Repo.Create(job); err != nil {
		log.Printf("submit: create job: %v\n", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	if err := h.Backend.Enqueue(r.Context(), job.ID); err != nil {
		log.Printf("submit: enqueue job %s: %v\n", job.ID, err)
		if errors.Is(err, dispatch.ErrFull) {
			http.Error(w, "queue full, try again later", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	dto := toDTO(job)
	dto.Filename = filename
	writeJSON(w, http.StatusCreated, dto)
}

func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("missing file field")
		}
		defer file.Close()
		content, err := io.ReadAll(file)
		if err != nil {
			return nil, "", fmt.Errorf("unreadable upload")
		}
		return content, header.Filename, nil
	}

	content, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", fmt.Errorf("unreadable request body")
	}
	return content, "", nil
}

func (h *JobHandler) Status(w http.ResponseWriter, r *http.Request) {
	job, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toDTO(job))
}

// Result serves the completed blob, or a signal describing why it cannot:
// 404 unknown id, 400 with the stored error for a failed job, 202 with
// current progress for a job still in flight.
func (h *JobHandler) Result(w http.ResponseWriter, r *http.Request) {
	job, ok := h.load(w, r)
	if !ok {
		return
	}

	switch job.Status {
	case jobs.StatusFailed:
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"job_id": job.ID,
			"status": string(job.Status),
			"error":  job.ErrorMessage,
		})
		return
	case jobs.StatusDone:
		// fall through to serve the blob
	default:
		writeJSON(w, http.StatusAccepted, map[string]any{
			"job_id":   job.ID,
			"status":   string(job.Status),
			"progress": job.Progress,
			"message":  fmt.Sprintf("job not yet completed, progress %d%%", job.Progress),
		})
		return
	}

	payload, err := h.Outputs.Get(job.OutputChecksum)
	if err != nil {
		// A done job without its blob is an integrity violation, not a
		// client error.
		log.Printf("result: job %s blob missing: %v\n", job.ID, err)
		http.Error(w, "result blob missing on server", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=embedding_%s.blob", job.ID))
	w.Header().Set("X-Job-Id", job.ID)
	w.Header().Set("X-Input-Checksum", job.InputChecksum)
	w.Header().Set("X-Output-Checksum", job.OutputChecksum)
	w.Header().Set("X-Vector-Dim", strconv.Itoa(job.VectorDim))
	w.Header().Set("X-Chunk-Count", strconv.Itoa(job.ChunkCount))
	w.Header().Set("X-Model-Id", job.ModelID)
	w.Header().Set("X-Created-At", job.CreatedAt.Format(time.RFC3339))
	_, _ = w.Write(payload)
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	size := queryInt(r, "size", 15)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 15
	}

	status := jobs.Status(strings.TrimSpace(r.URL.Query().Get("status")))
	if status != "" && !status.Valid() {
		http.Error(w, "invalid status filter", http.StatusBadRequest)
		return
	}

	items, total, err := h.Repo.List(page, size, status)
	if err != nil {
		log.Printf("list jobs: %v\n", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	dtos := make([]jobDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, toDTO(&items[i]))
	}

	pages := (total + int64(size) - 1) / int64(size)
	writeJSON(w, http.StatusOK, map[string]any{
		"items": dtos,
		"total": total,
		"page":  page,
		"size":  size,
		"pages": pages,
	})
}

func (h *JobHandler) load(w http.ResponseWriter, r *http.Request) (*jobs.Job, bool) {
	id := chi.URLParam(r, "id")
	job, err := h.Repo.Get(id)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			http.Error(w, "job not found", http.StatusNotFound)
		} else {
			log.Printf("load job %s: %v\n", id, err)
			http.Error(w, "server error", http.StatusInternalServerError)
		}
		return nil, false
	}
	return job, true
}

func queryInt(r *http.Request, key string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
