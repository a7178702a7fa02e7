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

type IIdentityService interface {
	SignIn(ctx context.Context, verified domain.Profile) (domain.Session, error)
	IssueSession(ctx context.Context, profile domain.Profile) (domain.Session, error)
}

// IdentityService turns a verified third-party identity into a session.
type IdentityService struct {
	log      *slog.Logger
	profiles contract.IProfileRepository
	roster   contract.IProviderRoster
	tokens   contract.ITokenIssuer
}

func NewIdentityService(log *slog.Logger, profiles contract.IProfileRepository,
	roster contract.IProviderRoster, tokens contract.ITokenIssuer) *IdentityService {
	return &IdentityService{log: log, profiles: profiles, roster: roster, tokens: tokens}
}

// SignIn records the profile on first login and issues a session for it.
func (s *IdentityService) SignIn(ctx context.Context, verified domain.Profile) (domain.Session, error) {
	verified.UserID = strings.TrimSpace(verified.UserID)
	if verified.UserID == "" {
		return domain.Session{}, fmt.Errorf("%w: verified profile has no id", errors.ErrIdentity)
	}
	stored, err := s.profiles.FindOrCreate(ctx, verified)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", errors.ErrIdentity, err)
	}
	return s.IssueSession(ctx, stored)
}

// IssueSession signs a credential for profile and classifies the account.
// It never writes.
func (s *IdentityService) IssueSession(ctx context.Context, profile domain.Profile) (domain.Session, error) {
	if strings.TrimSpace(profile.UserID) == "" {
		return domain.Session{}, fmt.Errorf("%w: profile has no id", errors.ErrIdentity)
	}

	// 1. Roster lookup first, a failing roster must not hand out a token
	isProvider, err := s.roster.IsProvider(ctx, profile.UserID)
	if err != nil {
		s.log.Error("Provider roster lookup failed", "user_id", profile.UserID, "error", err)
		return domain.Session{}, fmt.Errorf("%w: provider lookup: %v", errors.ErrIdentity, err)
	}

	// 2. Signed credential
	token, expiresAt, err := s.tokens.Issue(profile.UserID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", errors.ErrIdentity, err)
	}

	return domain.Session{
		Credential:   token,
		ExpiresAt:    expiresAt,
		IsNewAccount: profile.NeedsOnboarding(),
		IsProvider:   isProvider,
	}, nil
}
