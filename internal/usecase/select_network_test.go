package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/nftmarket/internal/domain"
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

func TestSelectNetwork(t *testing.T) {
	ctx := context.Background()
	available := []string{"hardhat", "localhost", "sepolia"}

	tests := []struct {
		name       string
		cfg        *config.RuntimeConfig
		setupMock  func(*MockInteractiveSelector)
		want       string
		wantErr    error
		errText    string
		wantPrompt bool
	}{
		{
			name: "configured network wins",
			cfg:  &config.RuntimeConfig{Network: &config.Network{Name: "sepolia"}, AvailableNetworks: available},
			want: "sepolia",
		},
		{
			name:    "non-interactive lists the choices",
			cfg:     &config.RuntimeConfig{NonInteractive: true, AvailableNetworks: available},
			wantErr: domain.ErrUnknownNetwork,
			errText: "use --network to select one (available: hardhat, localhost, sepolia)",
		},
		{
			name:    "no networks",
			cfg:     &config.RuntimeConfig{},
			wantErr: domain.ErrUnknownNetwork,
			errText: "no networks configured",
		},
		{
			name: "user picks a network",
			cfg:  &config.RuntimeConfig{AvailableNetworks: available},
			setupMock: func(m *MockInteractiveSelector) {
				m.On("SelectOption", mock.Anything, "Select network", available).Return(2, nil)
			},
			want:       "sepolia",
			wantPrompt: true,
		},
		{
			name: "selection cancelled",
			cfg:  &config.RuntimeConfig{AvailableNetworks: available},
			setupMock: func(m *MockInteractiveSelector) {
				m.On("SelectOption", mock.Anything, "Select network", available).Return(0, errors.New("^C"))
			},
			errText:    "failed to select network: ^C",
			wantPrompt: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selector := new(MockInteractiveSelector)
			if tt.setupMock != nil {
				tt.setupMock(selector)
			}

			got, err := usecase.NewSelectNetwork(tt.cfg, selector).Run(ctx)
			if tt.wantPrompt {
				selector.AssertExpectations(t)
			} else {
				selector.AssertNotCalled(t, "SelectOption", mock.Anything, mock.Anything, mock.Anything)
			}

			if tt.wantErr != nil || tt.errText != "" {
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				if tt.errText != "" {
					assert.ErrorContains(t, err, tt.errText)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
