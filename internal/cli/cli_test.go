package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/nftmarket/internal/config"
	"github.com/trebuchet-org/nftmarket/internal/domain"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

func TestParseListingParams(t *testing.T) {
	nft := "0x5FbDB2315678afecb367f032d93F642f64180aa3"

	tests := []struct {
		name    string
		tokenID string
		nft     string
		wantID  string
		wantNFT string
		wantErr error
		errText string
	}{
		{name: "decimal token", tokenID: "7", wantID: "7"},
		{name: "zero token", tokenID: "0", wantID: "0"},
		{name: "hex token", tokenID: "0x10", wantID: "16"},
		{name: "explicit nft", tokenID: "1", nft: nft, wantID: "1", wantNFT: nft},
		{name: "negative token", tokenID: "-1", errText: "invalid token id"},
		{name: "not a number", tokenID: "one", errText: "invalid token id"},
		{name: "bad nft address", tokenID: "1", nft: "0x1234", wantErr: domain.ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := parseListingParams(tt.tokenID, tt.nft)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			if tt.errText != "" {
				assert.ErrorContains(t, err, tt.errText)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, params.TokenID.String())
			if tt.wantNFT == "" {
				assert.Equal(t, common.Address{}, params.NFT)
			} else {
				assert.Equal(t, common.HexToAddress(tt.wantNFT), params.NFT)
			}
		})
	}
}

func TestRootCmd_Commands(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"deploy", "mint-and-list", "listing", "buy", "deployments", "config", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	for _, flag := range []string{"network", "debug", "non-interactive", "timeout", "confirmation-timeout", "poll-interval"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}

	mintCmd, _, err := root.Find([]string{"mint-and-list"})
	require.NoError(t, err)
	assert.Equal(t, usecase.DefaultListingPrice, mintCmd.Flags().Lookup("price").DefValue)
}

func TestVersionCmd(t *testing.T) {
	config.SetBuildFlags("v1.2.3", "abc123", "2024-01-01")
	t.Cleanup(func() { config.SetBuildFlags("dev", "unknown", "unknown") })

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "nftmarket version v1.2.3 (commit abc123, built 2024-01-01)\n", out.String())
}

func TestGetApp_NotInitialized(t *testing.T) {
	cmd := NewDeployCmd()
	cmd.SetContext(context.Background())

	_, err := getApp(cmd)
	assert.ErrorContains(t, err, "app not initialized")
}

func TestDeployCmd_DocumentsVerificationKeySources(t *testing.T) {
	long := NewDeployCmd().Long

	for _, want := range []string{"ETHERSCAN_API_KEY", "[etherscan.<network>]", "nftmarket.toml", "overrides it"} {
		assert.Contains(t, long, want)
	}
}

func TestRootCmd_NetworkSelectionWithoutTerminal(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, config.ProjectFile), []byte("artifacts = \"out\"\n"), 0644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("NFTM_NETWORK", "")

	tests := []struct {
		name    string
		args    []string
		wantErr error
		errText string
	}{
		{
			name:    "deploy without network",
			args:    []string{"deploy"},
			wantErr: domain.ErrUnknownNetwork,
			errText: "available: anvil, hardhat, localhost",
		},
		{
			name:    "buy without network",
			args:    []string{"buy", "0", "--non-interactive"},
			wantErr: domain.ErrUnknownNetwork,
			errText: "use --network to select one",
		},
		{
			name:    "unknown network",
			args:    []string{"listing", "0", "--network", "nowhere"},
			wantErr: domain.ErrUnknownNetwork,
			errText: "failed to initialize app",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCmd()
			var stdout, stderr bytes.Buffer
			cmd.SetOut(&stdout)
			cmd.SetErr(&stderr)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorContains(t, err, tt.errText)
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRootCmd_NetworkAnnotations(t *testing.T) {
	root := NewRootCmd()

	for name, want := range map[string]bool{
		"deploy":        true,
		"mint-and-list": true,
		"listing":       true,
		"buy":           true,
		"deployments":   false,
		"config":        false,
	} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, want, cmd.Annotations[networkAnnotation] == networkRequired, name)
	}
}
