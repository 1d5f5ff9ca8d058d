package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"smart-hire-be/internal/dto"
	"smart-hire-be/internal/mapper"
	"smart-hire-be/internal/repository/contract"
	"smart-hire-be/internal/repository/specification"
	"smart-hire-be/pkg/engine/dispatcher"
	"smart-hire-be/pkg/events"
	pktNats "smart-hire-be/pkg/nats"
	"smart-hire-be/pkg/store"
)

// candidateDirectory exposes the persisted pool to the dialogue engine.
type candidateDirectory struct {
	repo   contract.CandidateRepository
	mapper *mapper.CandidateMapper
}

func NewCandidateDirectory(repo contract.CandidateRepository) dispatcher.CandidateDirectory {
	return &candidateDirectory{repo: repo, mapper: mapper.NewCandidateMapper()}
}

func (d *candidateDirectory) All(ctx context.Context) ([]store.Candidate, error) {
	candidates, err := d.repo.FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: false})
	if err != nil {
		return nil, err
	}
	out := make([]store.Candidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, d.mapper.ToValue(c))
	}
	return out, nil
}

func (d *candidateDirectory) Count(ctx context.Context) (int64, error) {
	return d.repo.Count(ctx)
}

// candidateStore receives candidates extracted from mailbox CVs. Each add
// also queues an embedding and announces the candidate on the event bus.
type candidateStore struct {
	repo             contract.CandidateRepository
	mapper           *mapper.CandidateMapper
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
}

func NewCandidateStore(
	repo contract.CandidateRepository,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
) *candidateStore {
	return &candidateStore{
		repo:             repo,
		mapper:           mapper.NewCandidateMapper(),
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

func (s *candidateStore) Exists(ctx context.Context, cand store.Candidate) (bool, error) {
	if cand.Email != "" {
		existing, err := s.repo.FindOne(ctx, specification.ByEmail{Email: cand.Email})
		if err != nil {
			return false, err
		}
		if existing != nil {
			return true, nil
		}
	}
	existing, err := s.repo.FindOne(ctx, specification.ByFullName{
		LastName:  cand.LastName,
		FirstName: cand.FirstName,
	})
	if err != nil {
		return false, err
	}
	return existing != nil, nil
}

func (s *candidateStore) Add(ctx context.Context, cand store.Candidate) error {
	entity := s.mapper.FromValue(cand)
	entity.Id = uuid.New()
	entity.CreatedAt = time.Now()

	if err := s.repo.Create(ctx, entity); err != nil {
		return err
	}

	msgJson, err := json.Marshal(dto.PublishEmbedCandidateMessage{CandidateId: entity.Id})
	if err != nil {
		return err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeCandidateAdded,
			Data: map[string]interface{}{
				"candidate_id": entity.Id,
				"full_name":    entity.LastName + " " + entity.FirstName,
				"title":        entity.Title,
				"source":       "email_sync",
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish CANDIDATE_ADDED event: %v\n", err)
		}
	}

	return nil
}
