package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/njchilds90/integralcalc/internal/calc"
	"github.com/njchilds90/integralcalc/internal/history"
)

func newTestServer(t *testing.T) (*httptest.Server, *history.Store) {
	t.Helper()
	store := history.NewStore(filepath.Join(t.TempDir(), "history.txt"))
	srv := httptest.NewServer(newMux(calc.New(store), zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv, store
}

func post(t *testing.T, srv *httptest.Server, body string) (*http.Response, calc.ToolResponse) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/tool", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out calc.ToolResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestToolDefiniteIntegrate(t *testing.T) {
	srv, store := newTestServer(t)
	resp, out := post(t, srv, `{"tool":"definite_integrate","params":{"expr":"x**2","a":"0","b":"2"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, out.Error)
	assert.Equal(t, "≈ 2.666667", out.String)
	assert.Equal(t, 1, store.Len())
}

func TestToolErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	_, out := post(t, srv, `{"tool":"derivative","params":{"expr":"2x"}}`)
	assert.Equal(t, "parse error", out.Kind)

	_, out = post(t, srv, `{"tool":"nope","params":{}}`)
	assert.Equal(t, "unknown tool: nope", out.Error)

	resp, _ := post(t, srv, `{"tool":"latex","extra":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, srv, `{"tool":"latex"} {}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestToolMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/tool")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestSchemaAndHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/schema")
	require.NoError(t, err)
	var spec struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&spec))
	resp.Body.Close()
	require.NotEmpty(t, spec.Tools)
	assert.Equal(t, "integrate", spec.Tools[0].Name)

	post(t, srv, `{"tool":"definite_integrate","params":{"expr":"x","a":"0","b":"1"}}`)
	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	var health map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, float64(1), health["records"])
}
