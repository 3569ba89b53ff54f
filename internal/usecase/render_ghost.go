package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/neudestifanoes/Ghostify/internal/domain/entity"
	"github.com/neudestifanoes/Ghostify/internal/domain/port"
	"github.com/neudestifanoes/Ghostify/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// RenderGhostUseCase drives one ghost-trail render end to end: download the
// source, analyze its frame structure, split at keyframes, run the two
// accumulation passes, composite, and upload the artifacts. Stages run
// strictly in sequence; each consumes the immutable output of the previous.
type RenderGhostUseCase struct {
	repo      port.JobRepository
	storage   port.VideoStorage
	analyzer  port.FrameAnalyzer
	segmenter port.Segmenter
	renderer  port.GhostRenderer
	report    port.FrameReportWriter
	publisher port.StatusPublisher
	dlq       port.DLQPublisher
	notifier  port.FailureNotifier
	logger    *zap.Logger
	tempDir   string
	maxRetry  int
	defaults  entity.RenderSpec
	fallback  string
}

type RenderGhostConfig struct {
	TempDir    string
	MaxRetries int
	Defaults   entity.RenderSpec

	// FallbackEmail receives failure notifications for messages that carry
	// no user email.
	FallbackEmail string
}

func NewRenderGhostUseCase(
	repo port.JobRepository,
	storage port.VideoStorage,
	analyzer port.FrameAnalyzer,
	segmenter port.Segmenter,
	renderer port.GhostRenderer,
	report port.FrameReportWriter,
	publisher port.StatusPublisher,
	dlq port.DLQPublisher,
	notifier port.FailureNotifier,
	logger *zap.Logger,
	cfg RenderGhostConfig,
) *RenderGhostUseCase {
	return &RenderGhostUseCase{
		repo:      repo,
		storage:   storage,
		analyzer:  analyzer,
		segmenter: segmenter,
		renderer:  renderer,
		report:    report,
		publisher: publisher,
		dlq:       dlq,
		notifier:  notifier,
		logger:    logger,
		tempDir:   cfg.TempDir,
		maxRetry:  cfg.MaxRetries,
		defaults:  cfg.Defaults,
		fallback:  cfg.FallbackEmail,
	}
}

func (uc *RenderGhostUseCase) Execute(ctx context.Context, rawMsg []byte) error {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "RenderGhostUseCase.Execute")
	defer span.End()

	totalTimer := time.Now()

	var msg entity.GhostProcessingMessage
	if err := json.Unmarshal(rawMsg, &msg); err != nil {
		uc.logger.Error("failed to unmarshal message", zap.Error(err), zap.ByteString("body", rawMsg))
		_ = uc.dlq.PublishToDLQ(ctx, rawMsg, "unmarshal_error: "+err.Error())
		return nil
	}

	span.SetAttributes(
		attribute.String("job.id", msg.JobID.String()),
		attribute.String("job.video_key", msg.VideoKey),
	)

	log := uc.logger.With(zap.String("job_id", msg.JobID.String()), zap.String("video_key", msg.VideoKey))

	job, err := uc.repo.FindByID(ctx, msg.JobID)
	if err != nil {
		job = entity.NewGhostJob(msg.UserID, msg.VideoKey, msg.FileSize, uc.maxRetry)
		job.ID = msg.JobID
		if err := uc.repo.Create(ctx, job); err != nil {
			log.Error("failed to create job record", zap.Error(err))
			return fmt.Errorf("create job: %w", err)
		}
	}

	if !job.CanRetry() {
		log.Warn("job exhausted retries, sending to DLQ")
		_ = uc.handlePermanentFailure(ctx, job, msg, rawMsg, "max retries exceeded")
		return nil
	}

	spec := msg.Render.Apply(uc.defaults)
	if err := spec.Validate(); err != nil {
		log.Error("invalid render parameters", zap.Error(err))
		_ = uc.handlePermanentFailure(ctx, job, msg, rawMsg, "invalid_render_spec: "+err.Error())
		return nil
	}

	job.MarkProcessing()
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to PROCESSING", zap.Error(err))
		return fmt.Errorf("update job: %w", err)
	}

	metrics.ActiveWorkers.Inc()
	defer metrics.ActiveWorkers.Dec()

	if err := uc.renderPipeline(ctx, job, msg, spec, rawMsg, log); err != nil {
		return err
	}

	metrics.JobsProcessedTotal.WithLabelValues("completed").Inc()
	metrics.StageDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())

	return nil
}

func (uc *RenderGhostUseCase) renderPipeline(
	ctx context.Context,
	job *entity.GhostJob,
	msg entity.GhostProcessingMessage,
	spec entity.RenderSpec,
	rawMsg []byte,
	log *zap.Logger,
) error {
	tracer := otel.Tracer("usecase")

	workDir := filepath.Join(uc.tempDir, job.ID.String())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	// Download source from MinIO
	dlStart := time.Now()
	ctxDl, spanDl := tracer.Start(ctx, "download_video")
	videoPath := filepath.Join(workDir, "input.mp4")
	if err := uc.storage.DownloadVideo(ctxDl, msg.VideoKey, videoPath); err != nil {
		spanDl.End()
		log.Error("failed to download video", zap.Error(err))
		return uc.handleFailure(ctx, job, msg, rawMsg, "download_video: "+err.Error(), err, log)
	}
	spanDl.End()
	metrics.StageDuration.WithLabelValues("download").Observe(time.Since(dlStart).Seconds())

	// Analyze frame structure
	anStart := time.Now()
	ctxAn, spanAn := tracer.Start(ctx, "analyze_frames")
	frames, err := uc.analyzer.AnalyzeFrames(ctxAn, videoPath)
	if err != nil {
		spanAn.End()
		log.Error("frame analysis failed", zap.Error(err))
		return uc.handleFailure(ctx, job, msg, rawMsg, "analyze_frames: "+err.Error(), err, log)
	}
	info, err := uc.analyzer.Probe(ctxAn, videoPath)
	if err != nil {
		spanAn.End()
		log.Error("probe failed", zap.Error(err))
		return uc.handleFailure(ctx, job, msg, rawMsg, "probe: "+err.Error(), err, log)
	}
	spanAn.End()
	metrics.StageDuration.WithLabelValues("analyze").Observe(time.Since(anStart).Seconds())

	// Persist the frame report for operators
	reportPath := filepath.Join(workDir, "video_analysis.csv")
	if err := uc.report.WriteReport(ctx, frames, reportPath); err != nil {
		log.Error("frame report failed", zap.Error(err))
		return uc.handleFailure(ctx, job, msg, rawMsg, "frame_report: "+err.Error(), err, log)
	}

	// Split at keyframes, stream-copy
	segStart := time.Now()
	ctxSeg, spanSeg := tracer.Start(ctx, "segment")
	segmentsDir := filepath.Join(workDir, "segments")
	segments, err := uc.segmenter.Split(ctxSeg, videoPath, frames, segmentsDir)
	if err != nil {
		if errors.Is(err, entity.ErrSegmentation) && spec.AllowSingleSegment {
			log.Warn("too few keyframes, proceeding with single segment", zap.Error(err))
			segments = []entity.Segment{{
				Index:   0,
				EndTime: info.Duration,
				Nominal: info.Duration,
				Path:    videoPath,
			}}
		} else {
			spanSeg.End()
			log.Error("segmentation failed", zap.Error(err))
			return uc.handleFailure(ctx, job, msg, rawMsg, "segment: "+err.Error(), err, log)
		}
	}
	spanSeg.End()
	metrics.StageDuration.WithLabelValues("segment").Observe(time.Since(segStart).Seconds())
	metrics.SegmentsCreatedTotal.Add(float64(len(segments)))

	zones, err := assignZones(len(segments))
	if err != nil {
		log.Error("zone assignment failed", zap.Error(err))
		return uc.handleFailure(ctx, job, msg, rawMsg, "assign_zones: "+err.Error(), err, log)
	}

	// Grayscale pass: desaturated fold of all segments
	gsStart := time.Now()
	ctxGs, spanGs := tracer.Start(ctx, "grayscale_pass")
	basePath := filepath.Join(workDir, "ghost_base.mp4")
	if err := uc.renderer.RenderGrayscale(ctxGs, segments, spec.GrayscaleMode, basePath); err != nil {
		spanGs.End()
		log.Error("grayscale pass failed", zap.Error(err))
		return uc.handleFailure(ctx, job, msg, rawMsg, "grayscale_pass: "+err.Error(), err, log)
	}
	spanGs.End()
	metrics.StageDuration.WithLabelValues("grayscale").Observe(time.Since(gsStart).Seconds())

	// Temporal pass: color-isolated additive fold
	tpStart := time.Now()
	ctxTp, spanTp := tracer.Start(ctx, "temporal_pass")
	temporalPath := filepath.Join(workDir, "ghost_temporal.mp4")
	if err := uc.renderer.RenderTemporal(ctxTp, segments, zones, temporalPath); err != nil {
		spanTp.End()
		log.Error("temporal pass failed", zap.Error(err))
		return uc.handleFailure(ctx, job, msg, rawMsg, "temporal_pass: "+err.Error(), err, log)
	}
	spanTp.End()
	metrics.StageDuration.WithLabelValues("temporal").Observe(time.Since(tpStart).Seconds())

	// Final composite
	cpStart := time.Now()
	ctxCp, spanCp := tracer.Start(ctx, "composite")
	finalPath := filepath.Join(workDir, "ghost_final.mp4")
	if err := uc.renderer.Composite(ctxCp, basePath, temporalPath, finalPath, spec.BlendMode, spec.Opacity); err != nil {
		spanCp.End()
		log.Error("composite failed", zap.Error(err))
		return uc.handleFailure(ctx, job, msg, rawMsg, "composite: "+err.Error(), err, log)
	}
	spanCp.End()
	metrics.StageDuration.WithLabelValues("composite").Observe(time.Since(cpStart).Seconds())

	// Upload artifacts
	upStart := time.Now()
	ctxUp, spanUp := tracer.Start(ctx, "upload_artifacts")
	keys := entity.ArtifactKeys{
		Report:   fmt.Sprintf("%s/%s/video_analysis.csv", msg.UserID, job.ID),
		Base:     fmt.Sprintf("%s/%s/ghost_base.mp4", msg.UserID, job.ID),
		Temporal: fmt.Sprintf("%s/%s/ghost_temporal.mp4", msg.UserID, job.ID),
		Final:    fmt.Sprintf("%s/%s/ghost_final.mp4", msg.UserID, job.ID),
	}
	uploads := []struct {
		key, path, contentType string
	}{
		{keys.Report, reportPath, "text/csv"},
		{keys.Base, basePath, "video/mp4"},
		{keys.Temporal, temporalPath, "video/mp4"},
		{keys.Final, finalPath, "video/mp4"},
	}
	for _, u := range uploads {
		if err := uc.storage.UploadArtifact(ctxUp, u.key, u.path, u.contentType); err != nil {
			spanUp.End()
			log.Error("artifact upload failed", zap.String("key", u.key), zap.Error(err))
			return uc.handleFailure(ctx, job, msg, rawMsg, "upload_artifacts: "+err.Error(), err, log)
		}
	}
	spanUp.End()
	metrics.StageDuration.WithLabelValues("upload").Observe(time.Since(upStart).Seconds())

	// Mark completed
	job.MarkCompleted(keys, len(entity.Keyframes(frames)), len(segments), info.Duration)
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to COMPLETED", zap.Error(err))
		return fmt.Errorf("update job completed: %w", err)
	}

	uc.publishStatus(ctx, job, log)

	log.Info("ghost render completed",
		zap.Int("keyframes", job.KeyframeCount),
		zap.Int("segments", job.SegmentCount),
		zap.Float64("duration_secs", job.VideoDuration),
		zap.String("final_key", keys.Final),
	)

	return nil
}

// assignZones maps each segment index to its time zone. Fewer than three
// segments (the single-segment fallback) all land in EARLY.
func assignZones(n int) ([]entity.Zone, error) {
	zones := make([]entity.Zone, n)
	if n < 3 {
		return zones, nil
	}
	for i := range zones {
		z, err := entity.ZoneFor(i, n)
		if err != nil {
			return nil, err
		}
		zones[i] = z
	}
	return zones, nil
}

// isPermanentError reports whether a pipeline failure is deterministic:
// bad parameters or a source that cannot produce a render. Retrying those
// repeats the same failure, so they go straight to the DLQ.
func isPermanentError(err error) bool {
	return errors.Is(err, entity.ErrArgument) ||
		errors.Is(err, entity.ErrDecode) ||
		errors.Is(err, entity.ErrSegmentation) ||
		errors.Is(err, entity.ErrDimensionMismatch)
}

func (uc *RenderGhostUseCase) handleFailure(
	ctx context.Context,
	job *entity.GhostJob,
	msg entity.GhostProcessingMessage,
	rawMsg []byte,
	errMsg string,
	cause error,
	log *zap.Logger,
) error {
	if isPermanentError(cause) {
		return uc.handlePermanentFailure(ctx, job, msg, rawMsg, errMsg)
	}
	return uc.handleRetryableFailure(ctx, job, msg, rawMsg, errMsg, log)
}

func (uc *RenderGhostUseCase) handleRetryableFailure(
	ctx context.Context,
	job *entity.GhostJob,
	msg entity.GhostProcessingMessage,
	rawMsg []byte,
	errMsg string,
	log *zap.Logger,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	if !job.CanRetry() {
		return uc.handlePermanentFailure(ctx, job, msg, rawMsg, errMsg)
	}

	metrics.RetryTotal.WithLabelValues(strconv.Itoa(job.Attempt)).Inc()
	uc.publishStatus(ctx, job, log)

	return fmt.Errorf("retryable failure (attempt %d/%d): %s", job.Attempt, job.MaxAttempts, errMsg)
}

func (uc *RenderGhostUseCase) handlePermanentFailure(
	ctx context.Context,
	job *entity.GhostJob,
	msg entity.GhostProcessingMessage,
	rawMsg []byte,
	errMsg string,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	_ = uc.dlq.PublishToDLQ(ctx, rawMsg, errMsg)

	uc.publishStatus(ctx, job, uc.logger)

	metrics.JobsProcessedTotal.WithLabelValues("dlq").Inc()

	recipient := msg.UserEmail
	if recipient == "" {
		recipient = uc.fallback
	}
	if recipient != "" {
		_ = uc.notifier.NotifyFailure(ctx, recipient, job.ID.String(), msg.VideoKey, errMsg)
	}

	return nil
}

func (uc *RenderGhostUseCase) publishStatus(ctx context.Context, job *entity.GhostJob, log *zap.Logger) {
	statusMsg := entity.GhostStatusMessage{
		JobID:         job.ID,
		UserID:        job.UserID,
		Status:        job.Status,
		VideoKey:      job.VideoKey,
		ReportKey:     job.ReportKey,
		BaseKey:       job.BaseKey,
		TemporalKey:   job.TemporalKey,
		FinalKey:      job.FinalKey,
		KeyframeCount: job.KeyframeCount,
		SegmentCount:  job.SegmentCount,
		Duration:      job.VideoDuration,
		ErrorMessage:  job.ErrorMessage,
		Attempt:       job.Attempt,
		MaxAttempts:   job.MaxAttempts,
	}
	data, _ := json.Marshal(statusMsg)
	if err := uc.publisher.PublishStatus(ctx, data); err != nil {
		log.Error("failed to publish status", zap.Error(err))
	}
}
