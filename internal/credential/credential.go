// Package credential resolves classifier API keys. A key is taken from the
// environment first and from the OS keyring otherwise; it is never stored in
// configuration files or compiled into the binary.
package credential

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// Service is the keyring service name keys are stored under.
const Service = "pagepulse"

// EnvVar overrides the keyring when set.
const EnvVar = "PAGEPULSE_API_KEY"

// ErrNotFound means no key is configured for the provider.
var ErrNotFound = errors.New("credential: no API key found")

// Source says where a resolved key came from.
type Source string

const (
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
)

// Resolve returns the API key for provider.
func Resolve(provider string) (string, Source, error) {
	if v := strings.TrimSpace(os.Getenv(EnvVar)); v != "" {
		return v, SourceEnv, nil
	}
	key, err := keyring.Get(Service, provider)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return "", "", fmt.Errorf("%w for provider %q", ErrNotFound, provider)
	case err != nil:
		return "", "", fmt.Errorf("credential: keyring: %w", err)
	}
	return key, SourceKeyring, nil
}

// Set stores key for provider in the OS keyring.
func Set(provider, key string) error {
	key = strings.TrimSpace(key)
	if provider == "" || key == "" {
		return errors.New("credential: provider and key must not be empty")
	}
	if err := keyring.Set(Service, provider, key); err != nil {
		return fmt.Errorf("credential: keyring: %w", err)
	}
	return nil
}

// Delete removes the stored key for provider. Deleting a missing key
// returns ErrNotFound.
func Delete(provider string) error {
	err := keyring.Delete(Service, provider)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return fmt.Errorf("%w for provider %q", ErrNotFound, provider)
	case err != nil:
		return fmt.Errorf("credential: keyring: %w", err)
	}
	return nil
}

// Mask shortens key for display, keeping only its last four characters.
func Mask(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}
