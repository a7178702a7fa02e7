package services

import (
	"context"
	"log/slog"
	"market-lab/domain"
	"market-lab/errors"
	"market-lab/mocks"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAccountService(t *testing.T) {
	ctx := context.Background()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	t.Run("should store the onboarding address", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		profiles := mocks.NewMockIProfileRepository(ctrl)
		svc := NewAccountService(log, profiles, mocks.NewMockIProviderRoster(ctrl))

		profiles.EXPECT().UpdateAddress(gomock.Any(), "u1", "1 Main St").
			Return(domain.Profile{UserID: "u1", AddressLine: "1 Main St"}, nil).Times(1)

		profile, err := svc.CompleteOnboarding(ctx, "u1", " 1 Main St ")
		req.NoError(err)
		req.False(profile.NeedsOnboarding())
	})

	t.Run("should reject an empty address", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		profiles := mocks.NewMockIProfileRepository(ctrl)
		svc := NewAccountService(log, profiles, mocks.NewMockIProviderRoster(ctrl))

		profiles.EXPECT().UpdateAddress(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.CompleteOnboarding(ctx, "u1", "  ")
		req.ErrorIs(err, errors.ErrInvalidRequest)
	})

	t.Run("should add a known user to the roster", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		profiles := mocks.NewMockIProfileRepository(ctrl)
		roster := mocks.NewMockIProviderRoster(ctrl)
		svc := NewAccountService(log, profiles, roster)

		profiles.EXPECT().Get(gomock.Any(), "u1").Return(domain.Profile{UserID: "u1"}, nil).Times(1)
		roster.EXPECT().AddProvider(gomock.Any(), "u1").Return(nil).Times(1)

		req.NoError(svc.RegisterProvider(ctx, "u1"))
	})

	t.Run("should not register unknown users", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		profiles := mocks.NewMockIProfileRepository(ctrl)
		roster := mocks.NewMockIProviderRoster(ctrl)
		svc := NewAccountService(log, profiles, roster)

		profiles.EXPECT().Get(gomock.Any(), "ghost").Return(domain.Profile{}, errors.ErrNotFound).Times(1)
		roster.EXPECT().AddProvider(gomock.Any(), gomock.Any()).Times(0)

		req.ErrorIs(svc.RegisterProvider(ctx, "ghost"), errors.ErrNotFound)
	})
}
