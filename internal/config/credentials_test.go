package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrompter struct {
	secret string
	line   string
	err    error
	asked  []string
}

func (p *stubPrompter) Secret(label string) (string, error) {
	p.asked = append(p.asked, label)
	return p.secret, p.err
}

func (p *stubPrompter) Line(label string) (string, error) {
	p.asked = append(p.asked, label)
	return p.line, p.err
}

func TestProvisionCredentials_FirstRunPromptsAndPersists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), DirName)
	p := &stubPrompter{secret: " sk-abc \n", line: "org-42"}

	creds, err := ProvisionCredentials(dir, p)
	require.NoError(t, err)
	assert.Equal(t, &Credentials{APIKey: "sk-abc", OrgID: "org-42"}, creds)
	assert.Equal(t, []string{"SECRET KEY: ", "Organization ID: "}, p.asked)

	path := filepath.Join(dir, CredentialsFileName)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// second run reads the file without prompting
	again := &stubPrompter{}
	creds, err = ProvisionCredentials(dir, again)
	require.NoError(t, err)
	assert.Equal(t, "sk-abc", creds.APIKey)
	assert.Equal(t, "org-42", creds.OrgID)
	assert.Empty(t, again.asked)
}

func TestWriteCredentials_OwnerOnlyFromCreation(t *testing.T) {
	path := filepath.Join(t.TempDir(), CredentialsFileName)
	require.NoError(t, writeCredentials(path, map[string]string{
		keyAPIKey: "sk-secret",
		keyAPIOrg: "",
	}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	creds, err := LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, &Credentials{APIKey: "sk-secret"}, creds)
}

func TestWriteCredentials_TightensExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), CredentialsFileName)
	require.NoError(t, os.WriteFile(path, []byte("API_KEY=old\n"), 0o644))
	require.NoError(t, os.Chmod(path, 0o644))

	require.NoError(t, writeCredentials(path, map[string]string{keyAPIKey: "sk-new"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	creds, err := LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-new", creds.APIKey)
}

func TestProvisionCredentials_EmptyKey(t *testing.T) {
	dir := t.TempDir()
	_, err := ProvisionCredentials(dir, &stubPrompter{secret: "  "})
	assert.ErrorIs(t, err, ErrMissingCredential)

	_, statErr := os.Stat(filepath.Join(dir, CredentialsFileName))
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "no file is written for an empty key")
}

func TestProvisionCredentials_PromptError(t *testing.T) {
	_, err := ProvisionCredentials(t.TempDir(), &stubPrompter{err: errors.New("stdin closed")})
	assert.Error(t, err)
}

func TestLoadCredentials_HandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CredentialsFileName)
	require.NoError(t, os.WriteFile(path, []byte("API_KEY=sk-plain\nAPI_ORG=org-plain"), 0o600))

	creds, err := LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-plain", creds.APIKey)
	assert.Equal(t, "org-plain", creds.OrgID)
}

func TestLoadCredentials_MissingKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CredentialsFileName)
	require.NoError(t, os.WriteFile(path, []byte("API_ORG=org-only\n"), 0o600))

	_, err := LoadCredentials(path)
	assert.ErrorIs(t, err, ErrMissingCredential)
}
