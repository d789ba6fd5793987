package accounts

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
	"github.com/trebuchet-org/nftmarket/internal/domain/config"
	"github.com/trebuchet-org/nftmarket/internal/domain/models"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

// DevChainID is the chain id shared by the Hardhat and Anvil development nodes
const DevChainID = 31337

// devKeys are the publicly known, pre-funded keys of the Hardhat and Anvil nodes
var devKeys = map[string]string{
	"deployer": "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
	"buyer":    "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
}

// Provider resolves named accounts from hex private keys in the configuration. On a local
// development node, names without a configured key fall back to the node's default accounts.
type Provider struct {
	keys     map[string]string
	devChain bool

	once     sync.Once
	accounts map[string]*models.Account
	err      error
}

// NewProvider creates a new account provider
func NewProvider(cfg *config.RuntimeConfig) *Provider {
	p := &Provider{keys: make(map[string]string)}
	for name, key := range cfg.Accounts {
		if key = strings.TrimSpace(key); key != "" {
			p.keys[strings.ToLower(name)] = key
		}
	}

	if cfg.Network != nil {
		developmentChains := cfg.DevelopmentChains
		if len(developmentChains) == 0 {
			developmentChains = usecase.DefaultDevelopmentChains
		}
		p.devChain = cfg.Network.ChainID == DevChainID && lo.Contains(developmentChains, cfg.Network.Name)
	}
	return p
}

// NamedAccounts returns the accounts by name
func (p *Provider) NamedAccounts(ctx context.Context) (map[string]*models.Account, error) {
	p.once.Do(func() {
		p.accounts, p.err = p.resolve()
	})
	return p.accounts, p.err
}

func (p *Provider) resolve() (map[string]*models.Account, error) {
	keys := make(map[string]string, len(p.keys)+len(devKeys))
	if p.devChain {
		for name, key := range devKeys {
			keys[name] = key
		}
	}
	for name, key := range p.keys {
		keys[name] = key
	}

	accounts := make(map[string]*models.Account, len(keys))
	for name, key := range keys {
		account, err := parseAccount(name, key)
		if err != nil {
			return nil, err
		}
		accounts[name] = account
	}
	return accounts, nil
}

func parseAccount(name, hexKey string) (*models.Account, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimPrefix(hexKey, "0x"), "0X"))
	if err != nil {
		// the key itself is never echoed back
		return nil, fmt.Errorf("invalid private key for account %q", name)
	}
	return &models.Account{
		Name:       name,
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: key,
	}, nil
}

var _ usecase.AccountProvider = (*Provider)(nil)
