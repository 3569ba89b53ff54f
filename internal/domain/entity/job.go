package entity

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// GhostJob tracks one ghost-trail render through the pipeline, from queue
// delivery to the uploaded artifacts.
type GhostJob struct {
	ID            uuid.UUID
	UserID        string
	VideoKey      string
	ReportKey     string
	BaseKey       string
	TemporalKey   string
	FinalKey      string
	Status        JobStatus
	KeyframeCount int
	SegmentCount  int
	FileSize      int64
	VideoDuration float64
	Attempt       int
	MaxAttempts   int
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

func NewGhostJob(userID, videoKey string, fileSize int64, maxAttempts int) *GhostJob {
	now := time.Now().UTC()
	return &GhostJob{
		ID:          uuid.New(),
		UserID:      userID,
		VideoKey:    videoKey,
		FileSize:    fileSize,
		Status:      JobStatusPending,
		Attempt:     0,
		MaxAttempts: maxAttempts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (j *GhostJob) MarkProcessing() {
	j.Status = JobStatusProcessing
	j.Attempt++
	j.UpdatedAt = time.Now().UTC()
}

// ArtifactKeys names the object-storage keys of a completed render.
type ArtifactKeys struct {
	Report   string
	Base     string
	Temporal string
	Final    string
}

func (j *GhostJob) MarkCompleted(keys ArtifactKeys, keyframes, segments int, duration float64) {
	now := time.Now().UTC()
	j.Status = JobStatusCompleted
	j.ReportKey = keys.Report
	j.BaseKey = keys.Base
	j.TemporalKey = keys.Temporal
	j.FinalKey = keys.Final
	j.KeyframeCount = keyframes
	j.SegmentCount = segments
	j.VideoDuration = duration
	j.UpdatedAt = now
	j.CompletedAt = &now
}

func (j *GhostJob) MarkFailed(errMsg string) {
	j.Status = JobStatusFailed
	j.ErrorMessage = errMsg
	j.UpdatedAt = time.Now().UTC()
}

func (j *GhostJob) CanRetry() bool {
	return j.Attempt < j.MaxAttempts
}
