package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// CredentialsFileName is the dotfile holding the API credential
	CredentialsFileName = ".env"

	keyAPIKey = "API_KEY"
	keyAPIOrg = "API_ORG"
)

// ErrMissingCredential is returned when the dotfile has no API key
var ErrMissingCredential = errors.New("missing API key")

// Credentials holds the API secret and optional organization identifier
type Credentials struct {
	APIKey string
	OrgID  string
}

// Prompter asks the user for credential values on first run
type Prompter interface {
	// Secret reads a value without echo when possible
	Secret(label string) (string, error)
	// Line reads a plain line of input
	Line(label string) (string, error)
}

// LoadCredentials reads the dotfile at path
func LoadCredentials(path string) (*Credentials, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	creds := &Credentials{
		APIKey: strings.TrimSpace(env[keyAPIKey]),
		OrgID:  strings.TrimSpace(env[keyAPIOrg]),
	}
	if creds.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingCredential)
	}
	return creds, nil
}

// ProvisionCredentials loads dir/.env, prompting for and persisting the
// values first if the file does not exist yet
func ProvisionCredentials(dir string, p Prompter) (*Credentials, error) {
	path := filepath.Join(dir, CredentialsFileName)

	if _, err := os.Stat(path); err == nil {
		return LoadCredentials(path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat credentials: %w", err)
	}

	key, err := p.Secret("SECRET KEY: ")
	if err != nil {
		return nil, fmt.Errorf("failed to read secret key: %w", err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrMissingCredential
	}

	org, err := p.Line("Organization ID: ")
	if err != nil {
		return nil, fmt.Errorf("failed to read organization id: %w", err)
	}

	if err := EnsureDir(dir); err != nil {
		return nil, err
	}
	env := map[string]string{
		keyAPIKey: key,
		keyAPIOrg: strings.TrimSpace(org),
	}
	if err := writeCredentials(path, env); err != nil {
		return nil, err
	}

	return &Credentials{APIKey: env[keyAPIKey], OrgID: env[keyAPIOrg]}, nil
}

// writeCredentials creates the dotfile owner-only from the start
func writeCredentials(path string, env map[string]string) error {
	content, err := godotenv.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if _, err := f.WriteString(content + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	// O_CREATE honors the umask, which may only narrow 0600
	return os.Chmod(path, 0o600)
}
