package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pgvector/pgvector-go"

	"smart-hire-be/internal/dto"
	"smart-hire-be/internal/entity"
	"smart-hire-be/internal/model"
	"smart-hire-be/internal/repository/contract"
	"smart-hire-be/internal/repository/specification"
	"smart-hire-be/pkg/embedding"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	candidateRepo     contract.CandidateRepository
	embeddingRepo     contract.CandidateEmbeddingRepository
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	candidateRepo contract.CandidateRepository,
	embeddingRepo contract.CandidateEmbeddingRepository,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		candidateRepo:     candidateRepo,
		embeddingRepo:     embeddingRepo,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedCandidateMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing candidate embedding for CandidateId: %s", payload.CandidateId)

	candidate, err := cs.candidateRepo.FindOne(ctx, specification.ByID{ID: payload.CandidateId})
	if err != nil {
		log.Printf("[ERROR] Failed to get candidate %s: %v", payload.CandidateId, err)
		msg.Nack()
		return
	}
	if candidate == nil {
		// Deleted between publish and consume, nothing to embed.
		log.Printf("[WARN] Candidate not found: %s", payload.CandidateId)
		msg.Ack()
		return
	}

	document := buildCandidateDocument(candidate)

	res, err := cs.embeddingProvider.Generate(document, "RETRIEVAL_DOCUMENT")
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for %s: %v", payload.CandidateId, err)
		msg.Nack()
		return
	}

	// Re-embeds replace the previous vector, one row per candidate.
	if err := cs.embeddingRepo.DeleteByCandidateId(ctx, candidate.Id); err != nil {
		log.Printf("[ERROR] Failed to delete stale embedding for %s: %v", payload.CandidateId, err)
		msg.Nack()
		return
	}

	err = cs.embeddingRepo.Create(ctx, &model.CandidateEmbedding{
		Document:       document,
		EmbeddingValue: pgvector.NewVector(res.Embedding.Values),
		CandidateId:    candidate.Id,
	})
	if err != nil {
		log.Printf("[ERROR] Failed to store embedding for %s: %v", payload.CandidateId, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Stored embedding for candidate %s", payload.CandidateId)
	msg.Ack()
}

// buildCandidateDocument flattens a profile into the text that gets
// embedded. Field labels stay in French to match the CV language.
func buildCandidateDocument(c *entity.Candidate) string {
	return fmt.Sprintf(`Candidat: %s %s
Poste: %s
Expérience: %d ans
Compétences: %s
Formation: %s
Langues: %s`,
		c.LastName,
		c.FirstName,
		c.Title,
		c.Experience,
		strings.Join(c.Skills, ", "),
		c.Education,
		strings.Join(c.Languages, ", "),
	)
}
