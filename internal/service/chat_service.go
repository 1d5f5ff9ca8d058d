package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"smart-hire-be/internal/dto"
	"smart-hire-be/internal/repository/memory"
	"smart-hire-be/pkg/engine/composer"
	"smart-hire-be/pkg/engine/dispatcher"
	"smart-hire-be/pkg/events"
	pktNats "smart-hire-be/pkg/nats"
	"smart-hire-be/pkg/store"
)

var ErrSessionNotFound = errors.New("session not found")

const welcomeMessage = "👋 Bonjour ! Je suis votre assistant de recrutement Smart-Hire. " +
	"Décrivez-moi le poste à pourvoir et je chercherai les meilleurs candidats."

type IChatService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	ExecuteAction(ctx context.Context, req *dto.ExecuteActionRequest) (*dto.ExecuteActionResponse, error)
	GetHistory(ctx context.Context, sessionID string) (*dto.GetHistoryResponse, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type chatService struct {
	composer       *composer.Composer
	dispatcher     *dispatcher.Dispatcher
	sessionRepo    *memory.SessionRepository
	eventPublisher *pktNats.Publisher
}

func NewChatService(
	comp *composer.Composer,
	disp *dispatcher.Dispatcher,
	sessionRepo *memory.SessionRepository,
	eventPublisher *pktNats.Publisher,
) IChatService {
	return &chatService{
		composer:       comp,
		dispatcher:     disp,
		sessionRepo:    sessionRepo,
		eventPublisher: eventPublisher,
	}
}

func (s *chatService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	session := store.NewSession(uuid.NewString(), "")
	s.sessionRepo.Save(session)

	return &dto.CreateSessionResponse{
		SessionId: session.ID,
		Message:   welcomeMessage,
	}, nil
}

// SendMessage runs one dialogue turn. An unknown session ID starts a fresh
// conversation rather than failing, expired sessions resume transparently.
func (s *chatService) SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	session, found := s.sessionRepo.Get(req.SessionId)
	if !found {
		session = store.NewSession(req.SessionId, "")
	}

	reply := s.composer.ProcessMessage(ctx, req.Message, session)
	s.sessionRepo.Save(session)

	s.publishTurnEvents(ctx, session.ID, reply.Data)

	return &dto.SendMessageResponse{
		SessionId:  session.ID,
		Response:   reply.Response,
		Intent:     reply.Intent,
		Confidence: reply.Confidence,
		State:      string(session.State),
		Actions:    reply.Actions,
		Data:       reply.Data,
		Timestamp:  reply.Timestamp,
	}, nil
}

// ExecuteAction dispatches a button token. Unlike SendMessage this requires
// an existing session: tokens carry indices into its matched candidates.
func (s *chatService) ExecuteAction(ctx context.Context, req *dto.ExecuteActionRequest) (*dto.ExecuteActionResponse, error) {
	session, found := s.sessionRepo.Get(req.SessionId)
	if !found {
		return nil, ErrSessionNotFound
	}

	result := s.dispatcher.DispatchRaw(ctx, req.Action, session)
	s.sessionRepo.Save(session)

	if result.Success {
		s.publishTurnEvents(ctx, session.ID, result.Data)
	}

	return &dto.ExecuteActionResponse{
		SessionId: session.ID,
		Success:   result.Success,
		Response:  result.Message,
		State:     string(session.State),
		Actions:   result.Actions,
		Data:      result.Data,
		Timestamp: time.Now(),
	}, nil
}

func (s *chatService) GetHistory(ctx context.Context, sessionID string) (*dto.GetHistoryResponse, error) {
	session, found := s.sessionRepo.Get(sessionID)
	if !found {
		return nil, ErrSessionNotFound
	}

	return &dto.GetHistoryResponse{
		SessionId: session.ID,
		State:     string(session.State),
		History:   dto.NewHistoryTurns(session.History),
	}, nil
}

func (s *chatService) DeleteSession(ctx context.Context, sessionID string) error {
	s.sessionRepo.Delete(sessionID)
	return nil
}

// publishTurnEvents announces the side effects of a turn on the event bus.
// The dispatcher reports them through the result data, keyed per action.
func (s *chatService) publishTurnEvents(ctx context.Context, sessionID string, data map[string]interface{}) {
	if s.eventPublisher == nil || len(data) == 0 {
		return
	}

	publish := func(eventType string, payload map[string]interface{}) {
		payload["session_id"] = sessionID
		evt := events.BaseEvent{
			Type:       eventType,
			Data:       payload,
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
		}
	}

	if summary, ok := data["sync_summary"]; ok {
		publish(events.TypeSyncCompleted, map[string]interface{}{"summary": summary})
	}
	if invitations, ok := data["invitations_sent"]; ok {
		publish(events.TypeInvitationsSent, map[string]interface{}{"invitations": invitations})
	}
	if filename, ok := data["contract_filename"]; ok {
		publish(events.TypeContractGenerated, map[string]interface{}{"filename": filename})
	}
	if content, ok := data["post_content"]; ok {
		publish(events.TypeLinkedInPosted, map[string]interface{}{"content": content})
	}
}
