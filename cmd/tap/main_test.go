package main

import (
	"bufio"
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/appsflyer-master-sync/internal/config"
	"github.com/vfg2006/appsflyer-master-sync/internal/usecases/authenticating"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	stdout := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func decodeLines(t *testing.T, out string) []map[string]any {
	t.Helper()

	var messages []map[string]any
	scanner := bufio.NewScanner(bytes.NewBufferString(out))
	for scanner.Scan() {
		var msg map[string]any
		require.NoError(t, jsoniter.Unmarshal(scanner.Bytes(), &msg))
		messages = append(messages, msg)
	}
	return messages
}

func TestDiscover_WritesCatalog(t *testing.T) {
	t.Setenv("APPSFLYER_GROUPINGS", "pid,c")

	out, err := execute(t, "discover")
	require.NoError(t, err)

	var catalog map[string]any
	require.NoError(t, jsoniter.Unmarshal([]byte(out), &catalog))

	streams, ok := catalog["streams"].([]any)
	require.True(t, ok)
	require.Len(t, streams, 1)

	stream := streams[0].(map[string]any)
	assert.Equal(t, []any{"pid", "c"}, stream["key_properties"])
}

func TestSync_EmitsSchemaThenRecords(t *testing.T) {
	var (
		mu        sync.Mutex
		requested []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requested = append(requested, r.URL.Query().Get("from")+"/"+r.URL.Query().Get("app_id"))
		mu.Unlock()
		_, _ = w.Write([]byte(`[{"Campaign":"X"},{"Campaign":"Y"}]`))
	}))
	defer server.Close()

	t.Setenv("APPSFLYER_BASE_URL", server.URL)
	t.Setenv("APPSFLYER_API_TOKEN", "token-123")
	t.Setenv("APPSFLYER_APP_ID", "id-from-env")
	t.Setenv("APPSFLYER_REQUESTS_PER_MINUTE", "0")
	t.Setenv("MASTER_REPORT_SYNC_REQUEST_DELAY_SECONDS", "0")

	out, err := execute(t, "sync", "--as-of", "2024-01-04", "--date-range", "1", "--app-id", "id-from-flag")
	require.NoError(t, err)

	mu.Lock()
	assert.Equal(t, []string{"2024-01-03/id-from-flag"}, requested)
	mu.Unlock()

	messages := decodeLines(t, out)
	require.Len(t, messages, 3)
	assert.Equal(t, "SCHEMA", messages[0]["type"])
	assert.Equal(t, "RECORD", messages[1]["type"])
	assert.Equal(t, "X", messages[1]["record"].(map[string]any)["c"])
	assert.Equal(t, "Y", messages[2]["record"].(map[string]any)["c"])
}

func TestSync_InvalidAsOf(t *testing.T) {
	t.Setenv("APPSFLYER_API_TOKEN", "token-123")
	t.Setenv("APPSFLYER_APP_ID", "id123")

	_, err := execute(t, "sync", "--as-of", "04/01/2024")
	assert.Error(t, err)
}

func TestSync_MissingToken(t *testing.T) {
	t.Setenv("APPSFLYER_API_TOKEN", "")
	t.Setenv("APPSFLYER_APP_ID", "id123")

	_, err := execute(t, "sync", "--as-of", "2024-01-04")
	assert.ErrorIs(t, err, config.ErrMissingAPIToken)
}

func TestToken_IsAcceptedByAuthenticator(t *testing.T) {
	t.Setenv("AUTH_SECRET", "segredo-de-teste")

	out, err := execute(t, "token", "--name", "ops")
	require.NoError(t, err)

	cfg := &config.Config{Auth: config.Auth{Secret: "segredo-de-teste"}}
	claims, err := authenticating.NewService(cfg).ValidateToken(string(bytes.TrimSpace([]byte(out))))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Name)
}
