package secrets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"go.uber.org/zap"
)

// secretAPI is the slice of the Key Vault client the vault uses
type secretAPI interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

// Vault reads secrets from Azure Key Vault with an optional TTL cache
type Vault struct {
	api    secretAPI
	logger *zap.Logger
	ttl    time.Duration
	now    func() time.Time

	mu    sync.Mutex
	cache map[string]cachedSecret
}

type cachedSecret struct {
	value     string
	expiresAt time.Time
}

// VaultConfig holds configuration for the vault client
type VaultConfig struct {
	VaultName    string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// NewVault connects to the named Key Vault using DefaultAzureCredential
// (environment, managed identity or Azure CLI login).
func NewVault(cfg *VaultConfig, logger *zap.Logger) (*Vault, error) {
	if cfg.VaultName == "" {
		return nil, fmt.Errorf("vault name is required")
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	vaultURL := fmt.Sprintf("https://%s.vault.azure.net/", cfg.VaultName)
	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Key Vault client: %w", err)
	}

	logger.Info("Azure Key Vault client initialized", zap.String("vault_url", vaultURL))

	return newVault(client, cfg, logger), nil
}

func newVault(api secretAPI, cfg *VaultConfig, logger *zap.Logger) *Vault {
	v := &Vault{
		api:    api,
		logger: logger,
		now:    time.Now,
	}
	if cfg.CacheEnabled {
		v.ttl = cfg.CacheTTL
		if v.ttl == 0 {
			v.ttl = 5 * time.Minute
		}
		v.cache = make(map[string]cachedSecret)
	}
	return v
}

// GetSecret returns the current version of a secret
func (v *Vault) GetSecret(ctx context.Context, name string) (string, error) {
	if value, ok := v.cached(name); ok {
		return value, nil
	}

	resp, err := v.api.GetSecret(ctx, name, "", nil)
	if err != nil {
		v.logger.Error("Failed to get secret from Key Vault",
			zap.String("secret_name", name),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to get secret '%s': %w", name, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("secret '%s' has no value", name)
	}

	v.store(name, *resp.Value)
	return *resp.Value, nil
}

func (v *Vault) cached(name string) (string, bool) {
	if v.cache == nil {
		return "", false
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	entry, ok := v.cache[name]
	if !ok {
		return "", false
	}
	if v.now().After(entry.expiresAt) {
		delete(v.cache, name)
		return "", false
	}
	return entry.value, true
}

func (v *Vault) store(name, value string) {
	if v.cache == nil {
		return
	}
	v.mu.Lock()
	v.cache[name] = cachedSecret{value: value, expiresAt: v.now().Add(v.ttl)}
	v.mu.Unlock()
}
