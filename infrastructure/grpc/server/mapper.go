package server

import (
	"context"
	"fmt"
	"market-lab/auth"
	"market-lab/domain"
	"market-lab/domain/event"
	"market-lab/domain/hire"
	"market-lab/errors"
	"market-lab/infrastructure/grpc/api"
	"market-lab/infrastructure/record"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// callerID reads the user injected by the auth interceptors.
func callerID(ctx context.Context) (string, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "caller is not authenticated")
	}
	return userID, nil
}

func parseID(raw string, kind error) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed id %q", kind, raw)
	}
	return id, nil
}

func toConversation(c domain.Conversation) api.Conversation {
	dto := api.Conversation{
		ID:           c.ID.String(),
		Participants: c.Participants,
		MessageIDs:   record.IDStrings(c.MessageIDs),
		CreatedAt:    c.CreatedAt,
	}
	if c.LastMessageID != nil {
		dto.LastMessageID = c.LastMessageID.String()
	}
	return dto
}

func toMessage(m domain.Message) api.Message {
	return api.Message{
		ID:          m.ID.String(),
		SenderID:    m.SenderID,
		ReceiverID:  m.ReceiverID,
		Content:     m.Content,
		Attachments: m.Attachments,
		Read:        m.Read,
		CreatedAt:   m.CreatedAt,
	}
}

func toHireRequest(h hire.HireRequest) api.HireRequest {
	return api.HireRequest{
		ID:          h.ID.String(),
		ClientID:    h.ClientID,
		DesignerID:  h.DesignerID,
		Title:       h.Requirements.Title,
		Description: h.Requirements.Description,
		Budget:      h.Requirements.Budget,
		Timeline:    h.Requirements.Timeline,
		Attachments: h.Requirements.Attachments,
		Status:      string(h.Status),
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}

func toProfile(p domain.Profile) api.Profile {
	return api.Profile{
		UserID:          p.UserID,
		Email:           p.Email,
		DisplayName:     p.DisplayName,
		AddressLine:     p.AddressLine,
		NeedsOnboarding: p.NeedsOnboarding(),
	}
}

// toEvent returns false for events that have no wire form.
func toEvent(e event.DomainEvent) (api.Event, bool) {
	switch evt := e.(type) {
	case event.MessageSent:
		return api.Event{
			Type:           event.NameMessageSent,
			ConversationID: evt.ConversationID.String(),
			Message:        lo.ToPtr(toMessage(evt.Message)),
			At:             evt.Message.CreatedAt,
		}, true
	case event.MessageRead:
		return api.Event{
			Type:      event.NameMessageRead,
			MessageID: evt.MessageID.String(),
			ReaderID:  evt.ReaderID,
			At:        evt.At,
		}, true
	case event.HireRequestChanged:
		return api.Event{
			Type:           event.NameHireRequestChanged,
			HireRequest:    lo.ToPtr(toHireRequest(evt.Request)),
			PreviousStatus: string(evt.Previous),
			ActorID:        evt.ActorID,
			At:             evt.Request.UpdatedAt,
		}, true
	default:
		return api.Event{}, false
	}
}

func grpcError(err error) error {
	return errors.MapToGRPCError(err)
}
