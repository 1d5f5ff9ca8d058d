package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"smart-hire-be/internal/dto"
	"smart-hire-be/internal/entity"
	"smart-hire-be/internal/repository/contract"
	"smart-hire-be/internal/repository/specification"
	"smart-hire-be/pkg/embedding"
	"smart-hire-be/pkg/events"
	pktNats "smart-hire-be/pkg/nats"
)

type ICandidateService interface {
	List(ctx context.Context, query string, minExperience, limit, offset int) ([]*dto.CandidateResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.CandidateResponse, error)
	Create(ctx context.Context, req *dto.CreateCandidateRequest) (*dto.CandidateResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SemanticSearch(ctx context.Context, query string, limit int) ([]*dto.SemanticSearchResponse, error)
}

type candidateService struct {
	candidateRepo     contract.CandidateRepository
	embeddingRepo     contract.CandidateEmbeddingRepository
	publisherService  IPublisherService
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
}

func NewCandidateService(
	candidateRepo contract.CandidateRepository,
	embeddingRepo contract.CandidateEmbeddingRepository,
	publisherService IPublisherService,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
) ICandidateService {
	return &candidateService{
		candidateRepo:     candidateRepo,
		embeddingRepo:     embeddingRepo,
		publisherService:  publisherService,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
	}
}

// List pages through the pool, optionally narrowed by a name fragment and an
// experience floor.
func (s *candidateService) List(ctx context.Context, query string, minExperience, limit, offset int) ([]*dto.CandidateResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	}
	if query != "" {
		specs = append(specs, specification.NameContains{Query: query})
	}
	if minExperience > 0 {
		specs = append(specs, specification.MinExperience{Years: minExperience})
	}

	candidates, err := s.candidateRepo.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.CandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, toCandidateResponse(c))
	}
	return out, nil
}

func (s *candidateService) Show(ctx context.Context, id uuid.UUID) (*dto.CandidateResponse, error) {
	candidate, err := s.candidateRepo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, nil
	}
	return toCandidateResponse(candidate), nil
}

func (s *candidateService) Create(ctx context.Context, req *dto.CreateCandidateRequest) (*dto.CandidateResponse, error) {
	existing, err := s.candidateRepo.FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("candidate with email %s already exists", req.Email)
	}

	candidate := entity.Candidate{
		Id:         uuid.New(),
		LastName:   req.LastName,
		FirstName:  req.FirstName,
		Email:      req.Email,
		Phone:      req.Phone,
		Title:      req.Title,
		Experience: req.Experience,
		Skills:     req.Skills,
		Education:  req.Education,
		Languages:  req.Languages,
		CreatedAt:  time.Now(),
	}

	if err := s.candidateRepo.Create(ctx, &candidate); err != nil {
		return nil, err
	}

	if err := s.requestEmbedding(ctx, candidate.Id); err != nil {
		return nil, err
	}
	s.publishCandidateAdded(ctx, &candidate, "api")

	return toCandidateResponse(&candidate), nil
}

func (s *candidateService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.embeddingRepo.DeleteByCandidateId(ctx, id); err != nil {
		return err
	}
	return s.candidateRepo.Delete(ctx, id)
}

// SemanticSearch embeds the query and ranks the pool by cosine similarity.
// Vectors are stored normalized, so the dot product is the similarity.
func (s *candidateService) SemanticSearch(ctx context.Context, query string, limit int) ([]*dto.SemanticSearchResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	res, err := s.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	queryVector := res.Embedding.Values

	embeddings, err := s.embeddingRepo.FindNearest(ctx, queryVector, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.SemanticSearchResponse, 0, len(embeddings))
	for _, emb := range embeddings {
		candidate, err := s.candidateRepo.FindOne(ctx, specification.ByID{ID: emb.CandidateId})
		if err != nil {
			return nil, err
		}
		if candidate == nil {
			continue // embedding outlived its candidate
		}
		out = append(out, &dto.SemanticSearchResponse{
			Candidate: *toCandidateResponse(candidate),
			Score:     dotProduct(queryVector, emb.EmbeddingValue.Slice()),
		})
	}
	return out, nil
}

func (s *candidateService) requestEmbedding(ctx context.Context, id uuid.UUID) error {
	msgPayload := dto.PublishEmbedCandidateMessage{CandidateId: id}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, msgJson)
}

func (s *candidateService) publishCandidateAdded(ctx context.Context, candidate *entity.Candidate, source string) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: events.TypeCandidateAdded,
		Data: map[string]interface{}{
			"candidate_id": candidate.Id,
			"full_name":    candidate.LastName + " " + candidate.FirstName,
			"title":        candidate.Title,
			"source":       source,
		},
		OccurredAt: time.Now(),
	}
	// Notification is auxiliary, the request must not fail on it.
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		fmt.Printf("[WARN] Failed to publish CANDIDATE_ADDED event: %v\n", err)
	}
}

func dotProduct(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func toCandidateResponse(c *entity.Candidate) *dto.CandidateResponse {
	return &dto.CandidateResponse{
		Id:         c.Id,
		LastName:   c.LastName,
		FirstName:  c.FirstName,
		Email:      c.Email,
		Phone:      c.Phone,
		Title:      c.Title,
		Experience: c.Experience,
		Skills:     c.Skills,
		Education:  c.Education,
		Languages:  c.Languages,
		CreatedAt:  c.CreatedAt,
	}
}
