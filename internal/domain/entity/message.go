package entity

import "github.com/google/uuid"

// RenderOverrides lets a message override the configured render defaults
// field by field. Nil fields keep the default.
type RenderOverrides struct {
	SegmentCount  *int     `json:"segment_count,omitempty"`
	GrayscaleMode *string  `json:"grayscale_mode,omitempty"`
	BlendMode     *string  `json:"blend_mode,omitempty"`
	Opacity       *float64 `json:"opacity,omitempty"`
}

// Apply folds the overrides into a copy of spec. The result still has to
// pass RenderSpec.Validate.
func (o *RenderOverrides) Apply(spec RenderSpec) RenderSpec {
	if o == nil {
		return spec
	}
	if o.SegmentCount != nil {
		spec.SegmentCount = *o.SegmentCount
	}
	if o.GrayscaleMode != nil {
		spec.GrayscaleMode = GrayscaleMode(*o.GrayscaleMode)
	}
	if o.BlendMode != nil {
		spec.BlendMode = BlendMode(*o.BlendMode)
	}
	if o.Opacity != nil {
		spec.Opacity = *o.Opacity
	}
	return spec
}

// GhostProcessingMessage is the inbound message from the ghost.processing queue.
type GhostProcessingMessage struct {
	JobID     uuid.UUID        `json:"job_id"`
	UserID    string           `json:"user_id"`
	VideoKey  string           `json:"video_key"`
	FileSize  int64            `json:"file_size"`
	UserEmail string           `json:"user_email"`
	Render    *RenderOverrides `json:"render,omitempty"`
}

// GhostStatusMessage is the outbound message published to the ghost.status queue.
type GhostStatusMessage struct {
	JobID         uuid.UUID `json:"job_id"`
	UserID        string    `json:"user_id"`
	Status        JobStatus `json:"status"`
	VideoKey      string    `json:"video_key"`
	ReportKey     string    `json:"report_key,omitempty"`
	BaseKey       string    `json:"base_key,omitempty"`
	TemporalKey   string    `json:"temporal_key,omitempty"`
	FinalKey      string    `json:"final_key,omitempty"`
	KeyframeCount int       `json:"keyframe_count,omitempty"`
	SegmentCount  int       `json:"segment_count,omitempty"`
	Duration      float64   `json:"duration_seconds,omitempty"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	Attempt       int       `json:"attempt"`
	MaxAttempts   int       `json:"max_attempts"`
}
