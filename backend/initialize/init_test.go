package initialize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quicksort/backend/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	*App
	dir   string
	inbox string
}

func newTestApp(t *testing.T, secret string) *testApp {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.DataDir = dir
	cfg.DB.Path = filepath.Join(dir, "quicksort.db")
	cfg.Tree.RootPath = filepath.Join(dir, "Organized")
	cfg.Monitor.Interval = 50 * time.Millisecond
	cfg.Monitor.SettleDelay = 0
	cfg.JWT.Secret = secret

	app, err := BuildWith(cfg)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	inbox := filepath.Join(dir, "inbox")
	require.NoError(t, os.MkdirAll(inbox, 0o755))
	return &testApp{App: app, dir: dir, inbox: inbox}
}

func (a *testApp) do(t *testing.T, method, path string, body any, header ...string) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	out := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func TestHealth(t *testing.T) {
	a := newTestApp(t, "")
	code, body := a.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestTreeAndRuleRoutes(t *testing.T) {
	a := newTestApp(t, "")
	docsPath := filepath.Join(a.dir, "Organized", "Documents")

	code, body := a.do(t, http.MethodPost, "/api/tree/nodes", map[string]any{"name": "Documents", "path": docsPath})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, true, body["success"])
	node := body["node"].(map[string]any)
	nodeID := uint(node["id"].(float64))
	assert.DirExists(t, docsPath)

	code, body = a.do(t, http.MethodPost, "/api/tree/nodes", map[string]any{"name": "Again", "path": docsPath})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])

	code, _ = a.do(t, http.MethodPost, "/api/tree/nodes", map[string]any{"name": "Orphan", "path": filepath.Join(a.dir, "x"), "parent_id": 999})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = a.do(t, http.MethodPost, "/api/rules", map[string]any{"node_id": nodeID, "rule_type": "extension", "pattern": "pdf", "priority": 5})
	require.Equal(t, http.StatusCreated, code, body)
	rule := body["rule"].(map[string]any)
	assert.Equal(t, "Documents", rule["node_name"])
	assert.Equal(t, true, rule["is_active"])

	code, _ = a.do(t, http.MethodPost, "/api/rules", map[string]any{"node_id": nodeID, "rule_type": "colour", "pattern": "red"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(t, http.MethodPut, "/api/rules/999", map[string]any{"priority": 1})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = a.do(t, http.MethodPut, "/api/rules/abc", map[string]any{"priority": 1})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(t, http.MethodDelete, fmt.Sprintf("/api/tree/nodes/%d", nodeID), nil)
	assert.Equal(t, http.StatusConflict, code)

	code, body = a.do(t, http.MethodGet, "/api/tree", nil)
	require.Equal(t, http.StatusOK, code)
	tree := body["tree"].(map[string]any)
	assert.Equal(t, float64(1), tree["total_nodes"])
	assert.Equal(t, true, tree["has_rules"])

	code, body = a.do(t, http.MethodGet, "/api/rules", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["rules"], 1)

	ruleID := uint(rule["id"].(float64))
	code, _ = a.do(t, http.MethodDelete, fmt.Sprintf("/api/rules/%d", ruleID), nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = a.do(t, http.MethodDelete, fmt.Sprintf("/api/tree/nodes/%d", nodeID), nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = a.do(t, http.MethodDelete, fmt.Sprintf("/api/tree/nodes/%d", nodeID), nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestOrganizeAndLogRoutes(t *testing.T) {
	a := newTestApp(t, "")
	docsPath := filepath.Join(a.dir, "Organized", "Documents")
	_, body := a.do(t, http.MethodPost, "/api/tree/nodes", map[string]any{"name": "Documents", "path": docsPath})
	nodeID := body["node"].(map[string]any)["id"]
	code, _ := a.do(t, http.MethodPost, "/api/rules", map[string]any{"node_id": nodeID, "rule_type": "extension", "pattern": ".pdf"})
	require.Equal(t, http.StatusCreated, code)

	require.NoError(t, os.WriteFile(filepath.Join(a.inbox, "invoice.pdf"), []byte("pdf"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(a.inbox, "song.mp3"), []byte("mp3"), 0o644))

	code, body = a.do(t, http.MethodPost, "/api/organize/preview", map[string]any{"folder_path": a.inbox})
	require.Equal(t, http.StatusOK, code, body)
	preview := body["preview"].(map[string]any)
	assert.Equal(t, float64(2), preview["total_files"])
	assert.Equal(t, float64(1), preview["files_with_rules"])

	code, _ = a.do(t, http.MethodPost, "/api/organize/folder", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = a.do(t, http.MethodPost, "/api/organize/folder", map[string]any{"folder_path": a.inbox})
	require.Equal(t, http.StatusOK, code, body)
	result := body["result"].(map[string]any)
	assert.Equal(t, float64(2), result["files_processed"])
	assert.Equal(t, float64(1), result["files_moved"])
	assert.FileExists(t, filepath.Join(docsPath, "invoice.pdf"))

	code, body = a.do(t, http.MethodGet, "/api/logs?batch_id="+result["batch_id"].(string), nil)
	require.Equal(t, http.StatusOK, code)
	batchLogs := body["logs"].([]any)
	require.Len(t, batchLogs, 2)
	for _, l := range batchLogs {
		assert.Equal(t, result["batch_id"], l.(map[string]any)["batch_id"])
	}

	code, body = a.do(t, http.MethodPost, "/api/organize/file", map[string]any{"file_path": filepath.Join(a.inbox, "song.mp3")})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "pending", body["result"].(map[string]any)["status"])

	code, body = a.do(t, http.MethodGet, "/api/logs?limit=2", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["logs"], 2)

	code, _ = a.do(t, http.MethodGet, "/api/logs?limit=x", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = a.do(t, http.MethodGet, "/api/logs/stats", nil)
	require.Equal(t, http.StatusOK, code)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(3), stats["total"])
	assert.Equal(t, float64(1), stats["success"])
	assert.Equal(t, float64(2), stats["pending"])

	code, body = a.do(t, http.MethodPost, "/api/organize/file", map[string]any{"file_path": filepath.Join(a.inbox, "missing.pdf")})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])
	assert.Equal(t, "failed", body["result"].(map[string]any)["status"])
}

func TestMonitorRoutes(t *testing.T) {
	a := newTestApp(t, "")

	code, _ := a.do(t, http.MethodPost, "/api/monitor/start", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := a.do(t, http.MethodPut, "/api/monitor/config", map[string]any{"watch_folder": a.inbox, "auto_organize": false})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, a.inbox, body["config"].(map[string]any)["watch_folder"])

	code, _ = a.do(t, http.MethodPost, "/api/monitor/start", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = a.do(t, http.MethodPost, "/api/monitor/start", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, body = a.do(t, http.MethodGet, "/api/monitor/status", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["status"].(map[string]any)["is_running"])

	require.NoError(t, os.WriteFile(filepath.Join(a.inbox, "a.txt"), []byte("a"), 0o644))
	code, body = a.do(t, http.MethodGet, "/api/monitor/files", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, float64(1), body["without_rules"])

	code, _ = a.do(t, http.MethodPost, "/api/monitor/stop", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = a.do(t, http.MethodPost, "/api/monitor/stop", nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestMutatingRoutesRequireToken(t *testing.T) {
	a := newTestApp(t, "secret")

	code, _ := a.do(t, http.MethodGet, "/api/tree", nil)
	assert.Equal(t, http.StatusOK, code)

	req := map[string]any{"name": "Docs", "path": filepath.Join(a.dir, "Docs")}
	code, _ = a.do(t, http.MethodPost, "/api/tree/nodes", req)
	assert.Equal(t, http.StatusUnauthorized, code)

	tok, err := a.Signer.Sign("test", "")
	require.NoError(t, err)
	code, _ = a.do(t, http.MethodPost, "/api/tree/nodes", req, "Authorization", "Bearer "+tok)
	assert.Equal(t, http.StatusCreated, code)
}
