package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"chatgpt-assistant/internal/config"
	"chatgpt-assistant/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completionServer struct {
	mu       sync.Mutex
	status   int
	requests []json.RawMessage
}

func (s *completionServer) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.requests = append(s.requests, body)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if s.status != 0 && s.status != http.StatusOK {
		w.WriteHeader(s.status)
		_, _ = io.WriteString(w, `{"error":{"message":"unavailable","type":"server_error"}}`)
		return
	}
	_, _ = io.WriteString(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":"\n Bonjour! \n"},"finish_reason":"stop"}]}`)
}

func setupConfigDir(t *testing.T, baseURL string, withCredentials bool) string {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	dir := t.TempDir()
	cfg := "api_base_url: " + baseURL + "\n" + `profiles:
  default:
    messages: []
  french:
    messages:
      - role: system
        content: Answer in French.
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(cfg), 0o600))
	if withCredentials {
		require.NoError(t, os.WriteFile(filepath.Join(dir, config.CredentialsFileName),
			[]byte("API_KEY=sk-test\nAPI_ORG=\n"), 0o600))
	}
	return dir
}

func runRoot(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func newCompletionServer(t *testing.T, status int) (*completionServer, string) {
	t.Helper()
	cs := &completionServer{status: status}
	srv := httptest.NewServer(http.HandlerFunc(cs.handler))
	t.Cleanup(srv.Close)
	return cs, srv.URL + "/v1"
}

func TestProfilesCommand(t *testing.T) {
	dir := setupConfigDir(t, "http://unused", false)

	out, err := runRoot(t, "", "profiles", "--config-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "default\t0 message(s)\nfrench\t1 message(s)\n", out)
}

func TestChat_ProfileNotFound(t *testing.T) {
	cs, url := newCompletionServer(t, http.StatusOK)
	dir := setupConfigDir(t, url, true)

	out, err := runRoot(t, "hello\n", "--profile", "missing", "--config-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "profile not found\n", out)
	assert.Empty(t, cs.requests)
}

func TestChat_OneshotWithSystemMessages(t *testing.T) {
	cs, url := newCompletionServer(t, http.StatusOK)
	dir := setupConfigDir(t, url, true)

	out, err := runRoot(t, "  hello \nnever sent\n",
		"-p", "french", "-o", "-s", "Be brief.", "--config-dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "Starting conversation with ChatGPT.\n")
	assert.Contains(t, out, "Please type 'quit' to end the conversation.\n")
	assert.Contains(t, out, "ONESHOT MODE\n")
	assert.True(t, strings.HasSuffix(out, ">> Bonjour!\n"), "got %q", out)

	require.Len(t, cs.requests, 1)
	var payload struct {
		Model    string        `json:"model"`
		Messages []llm.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(cs.requests[0], &payload))
	assert.Equal(t, "gpt-3.5-turbo", payload.Model)
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleSystem, Content: "Answer in French."},
		{Role: llm.RoleSystem, Content: "Be brief."},
		{Role: llm.RoleUser, Content: "hello"},
	}, payload.Messages)
}

func TestChat_QuitSendsNothing(t *testing.T) {
	cs, url := newCompletionServer(t, http.StatusOK)
	dir := setupConfigDir(t, url, true)

	out, err := runRoot(t, "quit\nhello\n", "--config-dir", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, ">> "))
	assert.Empty(t, cs.requests)
}

func TestChat_RequestFailureIsVisible(t *testing.T) {
	cs, url := newCompletionServer(t, http.StatusServiceUnavailable)
	dir := setupConfigDir(t, url, true)

	out, err := runRoot(t, "hello\nagain\n", "--config-dir", dir, "--model", "gpt-4o")
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrCompletion)
	assert.Contains(t, out, "request failed:")
	assert.Len(t, cs.requests, 1, "the session ends after a failed request")
}

func TestChat_FirstRunProvisionsCredentials(t *testing.T) {
	cs, url := newCompletionServer(t, http.StatusOK)
	dir := setupConfigDir(t, url, false)

	out, err := runRoot(t, "sk-fresh\norg-7\nquit\n", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "SECRET KEY: Organization ID: ")
	assert.Empty(t, cs.requests)

	creds, err := config.LoadCredentials(filepath.Join(dir, config.CredentialsFileName))
	require.NoError(t, err)
	assert.Equal(t, "sk-fresh", creds.APIKey)
	assert.Equal(t, "org-7", creds.OrgID)
}
