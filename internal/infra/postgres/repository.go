package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neudestifanoes/Ghostify/internal/domain/entity"
)

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

func (r *JobRepository) Create(ctx context.Context, job *entity.GhostJob) error {
	query := `
		INSERT INTO ghost_jobs (
			id, user_id, video_key, report_key, base_key, temporal_key, final_key,
			status, keyframe_count, segment_count, file_size, video_duration,
			attempt, max_attempts, error_message, created_at, updated_at, completed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`

	_, err := r.pool.Exec(ctx, query,
		job.ID, job.UserID, job.VideoKey, job.ReportKey, job.BaseKey, job.TemporalKey, job.FinalKey,
		string(job.Status), job.KeyframeCount, job.SegmentCount, job.FileSize, job.VideoDuration,
		job.Attempt, job.MaxAttempts, job.ErrorMessage, job.CreatedAt, job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *JobRepository) Update(ctx context.Context, job *entity.GhostJob) error {
	query := `
		UPDATE ghost_jobs SET
			status=$2, report_key=$3, base_key=$4, temporal_key=$5, final_key=$6,
			keyframe_count=$7, segment_count=$8, video_duration=$9,
			attempt=$10, error_message=$11, updated_at=$12, completed_at=$13
		WHERE id=$1`

	_, err := r.pool.Exec(ctx, query,
		job.ID, string(job.Status), job.ReportKey, job.BaseKey, job.TemporalKey, job.FinalKey,
		job.KeyframeCount, job.SegmentCount, job.VideoDuration,
		job.Attempt, job.ErrorMessage, job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.GhostJob, error) {
	query := `
		SELECT id, user_id, video_key, report_key, base_key, temporal_key, final_key,
			status, keyframe_count, segment_count, file_size, video_duration,
			attempt, max_attempts, error_message, created_at, updated_at, completed_at
		FROM ghost_jobs WHERE id=$1`

	job := &entity.GhostJob{}
	var status string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.UserID, &job.VideoKey, &job.ReportKey, &job.BaseKey, &job.TemporalKey, &job.FinalKey,
		&status, &job.KeyframeCount, &job.SegmentCount, &job.FileSize, &job.VideoDuration,
		&job.Attempt, &job.MaxAttempts, &job.ErrorMessage,
		&job.CreatedAt, &job.UpdatedAt, &job.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("find job by id: %w", err)
	}
	job.Status = entity.JobStatus(status)
	return job, nil
}
