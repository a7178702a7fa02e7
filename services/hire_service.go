package services

import (
	"context"
	"fmt"
	"log/slog"
	"market-lab/auth"
	"market-lab/contract"
	"market-lab/domain/event"
	"market-lab/domain/hire"
	"market-lab/errors"
	"time"

	"github.com/google/uuid"
)

type IHireService interface {
	CreateHireRequest(ctx context.Context, cmd hire.CreateCommand) (hire.HireRequest, error)
	Transition(ctx context.Context, id uuid.UUID, actorID string, action hire.Action) (hire.HireRequest, error)
	GetHireRequest(ctx context.Context, id uuid.UUID, actorID string) (hire.HireRequest, error)
	ListHireRequests(ctx context.Context, userID string) ([]hire.HireRequest, error)
}

type HireService struct {
	log      *slog.Logger
	requests contract.IHireRequestRepository
	events   chan<- event.DomainEvent
	now      func() time.Time
}

func NewHireService(log *slog.Logger, requests contract.IHireRequestRepository,
	events chan<- event.DomainEvent) *HireService {
	return &HireService{
		log:      log,
		requests: requests,
		events:   events,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *HireService) CreateHireRequest(ctx context.Context, cmd hire.CreateCommand) (hire.HireRequest, error) {
	if err := auth.ValidateStruct(cmd, errors.ErrInvalidRequest); err != nil {
		return hire.HireRequest{}, err
	}
	request, err := hire.New(cmd.ClientID, cmd.DesignerID, cmd.Requirements, s.now())
	if err != nil {
		return hire.HireRequest{}, err
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return hire.HireRequest{}, err
	}
	s.log.Info("Hire request created", "hire_request_id", request.ID, "designer_id", request.DesignerID)
	publish(s.log, s.events, event.HireRequestChanged{Request: request, ActorID: cmd.ClientID})
	return request, nil
}

// Transition applies action on behalf of actorID. The status observed here is
// the one the store must still hold when the write lands, otherwise the call
// fails with ErrConflictingTransition.
func (s *HireService) Transition(ctx context.Context, id uuid.UUID, actorID string,
	action hire.Action) (hire.HireRequest, error) {
	current, err := s.requests.Get(ctx, id)
	if err != nil {
		return hire.HireRequest{}, err
	}
	next, err := current.Next(actorID, action)
	if err != nil {
		return hire.HireRequest{}, err
	}

	updated, err := s.requests.CompareAndSwapStatus(ctx, id, current.Status, next, s.now())
	if err != nil {
		if errors.Is(err, errors.ErrConflictingTransition) {
			s.log.Warn("Hire request moved concurrently", "hire_request_id", id, "expected", current.Status)
		}
		return hire.HireRequest{}, err
	}

	s.log.Info("Hire request transitioned",
		"hire_request_id", id,
		"from", current.Status,
		"to", updated.Status,
		"actor_id", actorID)
	publish(s.log, s.events, event.HireRequestChanged{Request: updated, Previous: current.Status, ActorID: actorID})
	return updated, nil
}

func (s *HireService) GetHireRequest(ctx context.Context, id uuid.UUID, actorID string) (hire.HireRequest, error) {
	request, err := s.requests.Get(ctx, id)
	if err != nil {
		return hire.HireRequest{}, err
	}
	if !request.IsParticipant(actorID) {
		return hire.HireRequest{}, fmt.Errorf("%w: %s is not part of hire request %s", errors.ErrForbidden, actorID, id)
	}
	return request, nil
}

func (s *HireService) ListHireRequests(ctx context.Context, userID string) ([]hire.HireRequest, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user", errors.ErrInvalidRequest)
	}
	return s.requests.ListByParticipant(ctx, userID)
}
