package deployments

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/trebuchet-org/nftmarket/internal/domain"
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
	"github.com/trebuchet-org/nftmarket/internal/domain/models"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

// ChainIDFile records the chain id of a network directory, as hardhat-deploy does
const ChainIDFile = ".chainId"

// FileRepository stores deployment records as <root>/<network>/<ContractName>.json. Saving
// a contract again overwrites the previous record.
type FileRepository struct {
	rootDir string
	mu      sync.RWMutex
}

// NewFileRepository creates a repository rooted at dir
func NewFileRepository(rootDir string) *FileRepository {
	return &FileRepository{rootDir: rootDir}
}

// NewFileRepositoryFromConfig creates a repository for the configured deployments directory
func NewFileRepositoryFromConfig(cfg *config.RuntimeConfig) *FileRepository {
	dir := cfg.DeploymentsDir
	if dir == "" {
		dir = "deployments"
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(cfg.ProjectRoot, dir)
	}
	return NewFileRepository(dir)
}

// GetDeployment loads the record of contractName on network
func (r *FileRepository) GetDeployment(ctx context.Context, network string, contractName string) (*models.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var deployment models.Deployment
	if err := r.loadFile(r.path(network, contractName), &deployment); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("deployment %s/%s: %w", network, contractName, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load deployment %s/%s: %w", network, contractName, err)
	}
	return &deployment, nil
}

// ListDeployments returns every record for network, or for all networks when it is empty
func (r *FileRepository) ListDeployments(ctx context.Context, network string) ([]*models.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	networks := []string{network}
	if network == "" {
		entries, err := os.ReadDir(r.rootDir)
		if err != nil {
			if os.IsNotExist(err) {
				return []*models.Deployment{}, nil
			}
			return nil, fmt.Errorf("failed to read deployments directory: %w", err)
		}
		networks = networks[:0]
		for _, entry := range entries {
			if entry.IsDir() {
				networks = append(networks, entry.Name())
			}
		}
	}

	deployments := []*models.Deployment{}
	for _, name := range networks {
		files, err := filepath.Glob(filepath.Join(r.rootDir, name, "*.json"))
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			var deployment models.Deployment
			if err := r.loadFile(file, &deployment); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", file, err)
			}
			deployments = append(deployments, &deployment)
		}
	}
	return deployments, nil
}

// SaveDeployment writes the record, replacing any previous deployment of the same contract
func (r *FileRepository) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	if deployment.Network == "" || deployment.ContractName == "" {
		return fmt.Errorf("deployment record needs a network and a contract name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Join(r.rootDir, deployment.Network)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create deployments directory: %w", err)
	}

	if deployment.ChainID != 0 {
		chainID := []byte(fmt.Sprintf("%d", deployment.ChainID))
		if err := os.WriteFile(filepath.Join(dir, ChainIDFile), chainID, 0644); err != nil {
			return fmt.Errorf("failed to write chain id: %w", err)
		}
	}

	return r.saveFile(r.path(deployment.Network, deployment.ContractName), deployment)
}

func (r *FileRepository) path(network, contractName string) string {
	return filepath.Join(r.rootDir, network, contractName+".json")
}

// loadFile decodes a JSON file
func (r *FileRepository) loadFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// saveFile writes v as indented JSON through a temp file and an atomic rename
func (r *FileRepository) saveFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// RootDir returns the directory the records are stored in
func (r *FileRepository) RootDir() string {
	return r.rootDir
}

var _ usecase.DeploymentRepository = (*FileRepository)(nil)
