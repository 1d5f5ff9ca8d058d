package contract

import (
	"context"

	"github.com/google/uuid"

	"smart-hire-be/internal/model"
)

type CandidateEmbeddingRepository interface {
	Create(ctx context.Context, embedding *model.CandidateEmbedding) error
	DeleteByCandidateId(ctx context.Context, candidateId uuid.UUID) error
	FindNearest(ctx context.Context, vector []float32, limit int) ([]*model.CandidateEmbedding, error)
}
