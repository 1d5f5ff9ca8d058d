package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smart-hire-be/internal/dto"
	"smart-hire-be/internal/pkg/logger"
	"smart-hire-be/pkg/events"
	pktNats "smart-hire-be/pkg/nats"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(sessionID string, notification dto.Notification)
	Broadcast(notification dto.Notification)
}

type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	// The NATS subject includes the stream prefix.
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	s.logger.Info("NotificationService", fmt.Sprintf("Processing event: %s", typeCode), map[string]interface{}{"type": typeCode})

	notification, ok := s.buildNotification(typeCode, event)
	if !ok {
		s.logger.Warn("NotificationService", fmt.Sprintf("No notification mapping for code: '%s'", typeCode), nil)
		return nil
	}

	if s.delivery == nil {
		return nil
	}

	// Events carrying a session ID go to that conversation's sockets,
	// everything else is fanned out to the whole team.
	if sessionID, ok := event.Payload()["session_id"].(string); ok && sessionID != "" {
		s.delivery.Send(sessionID, notification)
	} else {
		s.delivery.Broadcast(notification)
	}

	return nil
}

func (s *NotificationService) buildNotification(typeCode string, event events.Event) (dto.Notification, bool) {
	payload := event.Payload()

	notification := dto.Notification{
		Type:      typeCode,
		Metadata:  payload,
		CreatedAt: time.Now(),
	}

	switch typeCode {
	case events.TypeCandidateAdded:
		fullName, _ := payload["full_name"].(string)
		title, _ := payload["title"].(string)
		notification.Title = "Nouveau candidat"
		notification.Message = fmt.Sprintf("%s a rejoint le vivier (%s)", fullName, title)
	case events.TypeSyncCompleted:
		notification.Title = "Synchronisation terminée"
		notification.Message = "La boîte de réception a été synchronisée."
	case events.TypeInvitationsSent:
		notification.Title = "Invitations envoyées"
		notification.Message = "Les invitations d'entretien sont parties."
	case events.TypeContractGenerated:
		filename, _ := payload["filename"].(string)
		notification.Title = "Contrat généré"
		notification.Message = fmt.Sprintf("Le contrat %s est prêt.", filename)
	case events.TypeLinkedInPosted:
		notification.Title = "Offre publiée"
		notification.Message = "L'offre d'emploi a été publiée sur LinkedIn."
	default:
		return dto.Notification{}, false
	}

	return notification, true
}
