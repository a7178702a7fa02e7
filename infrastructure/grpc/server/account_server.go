package server

import (
	"context"
	"log/slog"
	"market-lab/infrastructure/grpc/api"
	"market-lab/services"
)

type AccountServer struct {
	log            *slog.Logger
	accountService services.IAccountService
}

func NewAccountServer(log *slog.Logger, accountService services.IAccountService) *AccountServer {
	return &AccountServer{log: log, accountService: accountService}
}

func (s *AccountServer) CompleteOnboarding(ctx context.Context, req *api.CompleteOnboardingRequest) (*api.ProfileResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := s.accountService.CompleteOnboarding(ctx, userID, req.AddressLine)
	if err != nil {
		return nil, grpcError(err)
	}
	return &api.ProfileResponse{Profile: toProfile(profile)}, nil
}

func (s *AccountServer) RegisterProvider(ctx context.Context, _ *api.Empty) (*api.Empty, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.accountService.RegisterProvider(ctx, userID); err != nil {
		return nil, grpcError(err)
	}
	return &api.Empty{}, nil
}

func (s *AccountServer) GetProfile(ctx context.Context, _ *api.Empty) (*api.ProfileResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := s.accountService.GetProfile(ctx, userID)
	if err != nil {
		return nil, grpcError(err)
	}
	return &api.ProfileResponse{Profile: toProfile(profile)}, nil
}
