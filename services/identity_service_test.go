package services

import (
	"context"
	"fmt"
	"log/slog"
	"market-lab/domain"
	"market-lab/errors"
	"market-lab/mocks"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestIdentityService_IssueSession(t *testing.T) {
	ctx := context.Background()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	expiresAt := time.Now().Add(30 * 24 * time.Hour)

	t.Run("should classify a profile without address as new", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		roster := mocks.NewMockIProviderRoster(ctrl)
		tokens := mocks.NewMockITokenIssuer(ctrl)
		profiles := mocks.NewMockIProfileRepository(ctrl)
		svc := NewIdentityService(log, profiles, roster, tokens)

		roster.EXPECT().IsProvider(gomock.Any(), "u1").Return(false, nil).Times(1)
		tokens.EXPECT().Issue("u1").Return("signed-token", expiresAt, nil).Times(1)
		// IssueSession never writes
		profiles.EXPECT().FindOrCreate(gomock.Any(), gomock.Any()).Times(0)

		session, err := svc.IssueSession(ctx, domain.Profile{UserID: "u1"})

		req.NoError(err)
		req.Equal("signed-token", session.Credential)
		req.True(session.IsNewAccount)
		req.False(session.IsProvider)
		req.Equal(expiresAt, session.ExpiresAt)
	})

	t.Run("should flag onboarded providers", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		roster := mocks.NewMockIProviderRoster(ctrl)
		tokens := mocks.NewMockITokenIssuer(ctrl)
		svc := NewIdentityService(log, mocks.NewMockIProfileRepository(ctrl), roster, tokens)

		roster.EXPECT().IsProvider(gomock.Any(), "u2").Return(true, nil).Times(1)
		tokens.EXPECT().Issue("u2").Return("t", expiresAt, nil).Times(1)

		session, err := svc.IssueSession(ctx, domain.Profile{UserID: "u2", AddressLine: "1 Main St"})

		req.NoError(err)
		req.False(session.IsNewAccount)
		req.True(session.IsProvider)
	})

	t.Run("should not issue a token when the roster fails", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		roster := mocks.NewMockIProviderRoster(ctrl)
		tokens := mocks.NewMockITokenIssuer(ctrl)
		svc := NewIdentityService(log, mocks.NewMockIProfileRepository(ctrl), roster, tokens)

		roster.EXPECT().IsProvider(gomock.Any(), "u3").Return(false, fmt.Errorf("connection refused")).Times(1)
		tokens.EXPECT().Issue(gomock.Any()).Times(0)

		_, err := svc.IssueSession(ctx, domain.Profile{UserID: "u3"})
		req.ErrorIs(err, errors.ErrIdentity)
	})

	t.Run("should reject a profile without id", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		svc := NewIdentityService(log, mocks.NewMockIProfileRepository(ctrl),
			mocks.NewMockIProviderRoster(ctrl), mocks.NewMockITokenIssuer(ctrl))

		_, err := svc.IssueSession(ctx, domain.Profile{Email: "x@example.com"})
		req.ErrorIs(err, errors.ErrIdentity)
	})
}

func TestIdentityService_SignIn(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	profiles := mocks.NewMockIProfileRepository(ctrl)
	roster := mocks.NewMockIProviderRoster(ctrl)
	tokens := mocks.NewMockITokenIssuer(ctrl)
	svc := NewIdentityService(logs.GetLoggerFromLevel(slog.LevelDebug), profiles, roster, tokens)

	verified := domain.Profile{UserID: "google-123", Email: "ada@example.com"}
	stored := verified
	stored.AddressLine = "12 rue de la Paix"

	// Given the profile already completed onboarding in the store
	profiles.EXPECT().FindOrCreate(gomock.Any(), verified).Return(stored, nil).Times(1)
	roster.EXPECT().IsProvider(gomock.Any(), "google-123").Return(false, nil).Times(1)
	tokens.EXPECT().Issue("google-123").Return("token", time.Now(), nil).Times(1)

	// When signing in with the fresh provider profile
	session, err := svc.SignIn(ctx, verified)

	// Then the stored address wins
	req.NoError(err)
	req.False(session.IsNewAccount)
}
