package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/neudestifanoes/Ghostify/internal/domain/entity"
)

type JobRepository interface {
	Create(ctx context.Context, job *entity.GhostJob) error
	Update(ctx context.Context, job *entity.GhostJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.GhostJob, error)
}
