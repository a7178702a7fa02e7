package server

import (
	"context"
	"log/slog"
	"market-lab/domain/hire"
	"market-lab/errors"
	"market-lab/infrastructure/grpc/api"
	"market-lab/services"

	"github.com/samber/lo"
)

type HireServer struct {
	log         *slog.Logger
	hireService services.IHireService
}

func NewHireServer(log *slog.Logger, hireService services.IHireService) *HireServer {
	return &HireServer{log: log, hireService: hireService}
}

// CreateHireRequest makes the caller the client of the request.
func (s *HireServer) CreateHireRequest(ctx context.Context, req *api.CreateHireRequestRequest) (*api.HireRequestResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	request, err := s.hireService.CreateHireRequest(ctx, hire.CreateCommand{
		ClientID:   userID,
		DesignerID: req.DesignerID,
		Requirements: hire.Requirements{
			Title:       req.Title,
			Description: req.Description,
			Budget:      req.Budget,
			Timeline:    req.Timeline,
			Attachments: req.Attachments,
		},
	})
	if err != nil {
		return nil, grpcError(err)
	}
	return &api.HireRequestResponse{HireRequest: toHireRequest(request)}, nil
}

func (s *HireServer) TransitionHireRequest(ctx context.Context, req *api.TransitionHireRequestRequest) (*api.HireRequestResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(req.ID, errors.ErrInvalidRequest)
	if err != nil {
		return nil, grpcError(err)
	}
	action, err := hire.ParseAction(req.Action)
	if err != nil {
		return nil, grpcError(err)
	}
	request, err := s.hireService.Transition(ctx, id, userID, action)
	if err != nil {
		return nil, grpcError(err)
	}
	return &api.HireRequestResponse{HireRequest: toHireRequest(request)}, nil
}

func (s *HireServer) GetHireRequest(ctx context.Context, req *api.GetHireRequestRequest) (*api.HireRequestResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	id, err := parseID(req.ID, errors.ErrInvalidRequest)
	if err != nil {
		return nil, grpcError(err)
	}
	request, err := s.hireService.GetHireRequest(ctx, id, userID)
	if err != nil {
		return nil, grpcError(err)
	}
	return &api.HireRequestResponse{HireRequest: toHireRequest(request)}, nil
}

func (s *HireServer) ListHireRequests(ctx context.Context, _ *api.ListHireRequestsRequest) (*api.ListHireRequestsResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := s.hireService.ListHireRequests(ctx, userID)
	if err != nil {
		return nil, grpcError(err)
	}
	return &api.ListHireRequestsResponse{
		HireRequests: lo.Map(requests, func(h hire.HireRequest, _ int) api.HireRequest { return toHireRequest(h) }),
	}, nil
}
