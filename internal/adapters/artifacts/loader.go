package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/nftmarket/internal/domain"
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
	"github.com/trebuchet-org/nftmarket/internal/domain/models"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

// Contract is a loaded artifact ready for deployment
type Contract struct {
	Name       string
	SourceName string
	ABI        abi.ABI
	Bytecode   []byte
	Path       string
}

// Loader finds compiled contracts under the artifacts directory. Hardhat
// (artifacts/<source>.sol/<Name>.json) and Foundry (out/<Name>.sol/<Name>.json) layouts
// are both supported. When a name matches several artifacts the user picks one, or the
// load fails in non-interactive mode.
type Loader struct {
	dir            string
	selector       usecase.InteractiveSelector
	nonInteractive bool

	mu    sync.Mutex
	cache map[string]*Contract
}

// NewLoader creates a new loader for the configured artifacts directory
func NewLoader(cfg *config.RuntimeConfig, selector usecase.InteractiveSelector) *Loader {
	dir := cfg.ArtifactsDir
	if dir != "" && !filepath.IsAbs(dir) {
		dir = filepath.Join(cfg.ProjectRoot, dir)
	}
	return &Loader{
		dir:            dir,
		selector:       selector,
		nonInteractive: cfg.NonInteractive,
		cache:          make(map[string]*Contract),
	}
}

// Load returns the artifact for contractName
func (l *Loader) Load(ctx context.Context, contractName string) (*Contract, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if c, ok := l.cache[contractName]; ok {
		return c, nil
	}

	path, err := l.find(ctx, contractName)
	if err != nil {
		return nil, err
	}

	c, err := parseArtifact(path, contractName)
	if err != nil {
		return nil, err
	}
	l.cache[contractName] = c
	return c, nil
}

func (l *Loader) find(ctx context.Context, contractName string) (string, error) {
	if l.dir == "" {
		return "", fmt.Errorf("artifact %s: %w (no artifacts directory configured)", contractName, domain.ErrNotFound)
	}

	target := contractName + ".json"
	var found []string
	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case "build-info", "cache":
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == target && strings.HasSuffix(filepath.Dir(path), ".sol") {
			found = append(found, path)
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to scan artifacts: %w", err)
	}

	switch len(found) {
	case 0:
		return "", fmt.Errorf("artifact %s in %s: %w", contractName, l.dir, domain.ErrNotFound)
	case 1:
		return found[0], nil
	}

	options := make([]string, len(found))
	for i, path := range found {
		options[i] = path
		if rel, err := filepath.Rel(l.dir, path); err == nil {
			options[i] = rel
		}
	}

	if l.selector == nil || l.nonInteractive {
		return "", fmt.Errorf("artifact %s: %w, found %d candidates: %s",
			contractName, domain.ErrAmbiguous, len(found), strings.Join(options, ", "))
	}

	index, err := l.selector.SelectOption(ctx, fmt.Sprintf("Multiple artifacts named %s, select one", contractName), options)
	if err != nil {
		return "", fmt.Errorf("artifact %s: %w", contractName, err)
	}
	return found[index], nil
}

func parseArtifact(path, contractName string) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var artifact models.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}

	parsed, err := abi.JSON(bytes.NewReader(artifact.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", contractName, err)
	}

	var bytecode []byte
	if obj := artifact.Bytecode.Object; obj != "" && obj != "0x" {
		if !strings.HasPrefix(obj, "0x") {
			obj = "0x" + obj
		}
		if bytecode, err = hexutil.Decode(obj); err != nil {
			return nil, fmt.Errorf("invalid bytecode in %s (unlinked libraries?): %w", path, err)
		}
	}

	return &Contract{
		Name:       contractName,
		SourceName: artifact.Source(),
		ABI:        parsed,
		Bytecode:   bytecode,
		Path:       path,
	}, nil
}
