package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

func TestConsoleSink_NonInteractive(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, false)

	sink.OnProgress(context.Background(), usecase.ProgressEvent{Stage: "Minted", Current: 1, Total: 3, Message: "Minting NFT...", Spinner: true})
	sink.OnProgress(context.Background(), usecase.ProgressEvent{Stage: "deployed", Message: "deployed at 0x1"})
	sink.OnProgress(context.Background(), usecase.ProgressEvent{Stage: "silent"})
	sink.Info("Verifying NFTMarketplace on sepolia network...")
	sink.Error("Verification failed")
	sink.Stop()

	assert.Equal(t,
		"[1/3] Minting NFT...\n"+
			"deployed at 0x1\n"+
			"Verifying NFTMarketplace on sepolia network...\n"+
			"Verification failed\n",
		buf.String())
}

func TestConsoleSink_PauseWithoutSpinner(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, false)

	resume := sink.Pause()
	assert.NotNil(t, resume)
	resume()
	assert.Empty(t, buf.String())
}
