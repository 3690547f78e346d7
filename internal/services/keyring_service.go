package services

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const keyringServiceName = "replyhint"

// KeyringService stores the completion API key in the OS keychain, keyed by
// endpoint provider, so the plain settings document can keep its
// placeholder.
type KeyringService struct{}

func NewKeyringService() *KeyringService {
	return &KeyringService{}
}

func (s *KeyringService) StoreAPIKey(provider, apiKey string) error {
	if provider == "" {
		return errors.New("provider is required")
	}
	if apiKey == "" {
		return errors.New("API key is empty")
	}
	return keyring.Set(keyringServiceName, provider, apiKey)
}

func (s *KeyringService) GetAPIKey(provider string) (string, error) {
	if provider == "" {
		return "", errors.New("provider is required")
	}
	return keyring.Get(keyringServiceName, provider)
}

func (s *KeyringService) DeleteAPIKey(provider string) error {
	if provider == "" {
		return errors.New("provider is required")
	}
	return keyring.Delete(keyringServiceName, provider)
}
