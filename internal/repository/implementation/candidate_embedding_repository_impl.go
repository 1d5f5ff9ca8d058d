package implementation

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"smart-hire-be/internal/model"
	"smart-hire-be/internal/repository/contract"
)

type CandidateEmbeddingRepositoryImpl struct {
	db *gorm.DB
}

func NewCandidateEmbeddingRepository(db *gorm.DB) contract.CandidateEmbeddingRepository {
	return &CandidateEmbeddingRepositoryImpl{db: db}
}

func (r *CandidateEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *model.CandidateEmbedding) error {
	return r.db.WithContext(ctx).Create(embedding).Error
}

func (r *CandidateEmbeddingRepositoryImpl) DeleteByCandidateId(ctx context.Context, candidateId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateId).
		Delete(&model.CandidateEmbedding{}).Error
}

// FindNearest orders by cosine distance; vectors are stored normalized.
func (r *CandidateEmbeddingRepositoryImpl) FindNearest(ctx context.Context, vector []float32, limit int) ([]*model.CandidateEmbedding, error) {
	var results []*model.CandidateEmbedding
	err := r.db.WithContext(ctx).
		Order(gorm.Expr("embedding_value <=> ?", pgvector.NewVector(vector))).
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
