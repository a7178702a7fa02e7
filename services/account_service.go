package services

import (
	"context"
	"fmt"
	"log/slog"
	"market-lab/contract"
	"market-lab/domain"
	"market-lab/errors"
	"strings"
)

type IAccountService interface {
	CompleteOnboarding(ctx context.Context, userID, addressLine string) (domain.Profile, error)
	RegisterProvider(ctx context.Context, userID string) error
	GetProfile(ctx context.Context, userID string) (domain.Profile, error)
}

type AccountService struct {
	log      *slog.Logger
	profiles contract.IProfileRepository
	roster   contract.IProviderRoster
}

func NewAccountService(log *slog.Logger, profiles contract.IProfileRepository,
	roster contract.IProviderRoster) *AccountService {
	return &AccountService{log: log, profiles: profiles, roster: roster}
}

// CompleteOnboarding stores the address, which is what flips an account from new to onboarded.
func (s *AccountService) CompleteOnboarding(ctx context.Context, userID, addressLine string) (domain.Profile, error) {
	addressLine = strings.TrimSpace(addressLine)
	if addressLine == "" {
		return domain.Profile{}, fmt.Errorf("%w: address is required", errors.ErrInvalidRequest)
	}
	profile, err := s.profiles.UpdateAddress(ctx, userID, addressLine)
	if err != nil {
		return domain.Profile{}, err
	}
	s.log.Info("Onboarding completed", "user_id", userID)
	return profile, nil
}

// RegisterProvider adds userID to the provider roster. Registering twice is harmless.
func (s *AccountService) RegisterProvider(ctx context.Context, userID string) error {
	if _, err := s.profiles.Get(ctx, userID); err != nil {
		return err
	}
	if err := s.roster.AddProvider(ctx, userID); err != nil {
		return err
	}
	s.log.Info("Provider registered", "user_id", userID)
	return nil
}

func (s *AccountService) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	return s.profiles.Get(ctx, userID)
}
