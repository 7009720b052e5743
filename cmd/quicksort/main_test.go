package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quicksort/backend/app/dto"
	jwtutil "quicksort/backend/app/jwt"
	"quicksort/backend/config"
	"quicksort/backend/initialize"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliEnv struct {
	dir    string
	config string
	inbox  string
}

func newCLIEnv(t *testing.T, extra string) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	env := &cliEnv{dir: dir, config: filepath.Join(dir, "config.yaml"), inbox: filepath.Join(dir, "inbox")}
	body := fmt.Sprintf("data_dir: %s\ntree:\n  root_path: %s\nlog:\n  level: error\n%s",
		filepath.Join(dir, "data"), filepath.Join(dir, "Organized"), extra)
	require.NoError(t, os.WriteFile(env.config, []byte(body), 0o644))
	require.NoError(t, os.MkdirAll(env.inbox, 0o755))
	return env
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// seed creates a Documents node with a pdf rule through the services.
func (e *cliEnv) seed(t *testing.T) string {
	t.Helper()
	cfg, err := config.Load(e.config)
	require.NoError(t, err)
	app, err := initialize.BuildWith(cfg)
	require.NoError(t, err)
	defer app.Close()

	docs := filepath.Join(e.dir, "Organized", "Documents")
	node, err := app.Tree.CreateNode(dto.NodeRequest{Name: "Documents", Path: docs})
	require.NoError(t, err)
	_, err = app.Rules.CreateRule(dto.RuleRequest{NodeID: node.ID, RuleType: "extension", Pattern: "pdf"})
	require.NoError(t, err)
	return docs
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"1"}, {"2", "3"}}, []columnAlignment{alignLeft, alignRight})
	assert.Contains(t, out, "A")
	assert.Contains(t, out, "3")
	assert.Empty(t, renderTable(nil, nil, nil))
	assert.Equal(t, "failed", statusText("failed", false))
}

func TestPreviewAndOrganizeCommands(t *testing.T) {
	env := newCLIEnv(t, "")
	docs := env.seed(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.inbox, "report.pdf"), []byte("r"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(env.inbox, "notes.txt"), []byte("n"), 0o644))

	out, err := env.run(t, "preview", env.inbox)
	require.NoError(t, err)
	assert.Contains(t, out, "report.pdf")
	assert.Contains(t, out, "2 files, 1 with rules, 1 without")
	assert.FileExists(t, filepath.Join(env.inbox, "report.pdf"))

	out, err = env.run(t, "organize", env.inbox)
	require.NoError(t, err)
	assert.Contains(t, out, "1 moved")
	assert.FileExists(t, filepath.Join(docs, "report.pdf"))
	assert.FileExists(t, filepath.Join(env.inbox, "notes.txt"))

	out, err = env.run(t, "logs", "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "total 2, success 1, failed 0, pending 1")

	out, err = env.run(t, "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "extension")

	out, err = env.run(t, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "Documents")
}

func TestOrganizeRefusesWhileLocked(t *testing.T) {
	env := newCLIEnv(t, "")
	cmdCtx := newCommandContext(&env.config)
	lock, err := cmdCtx.acquireLock()
	require.NoError(t, err)
	defer func() { _ = lock.Unlock() }()

	_, err = env.run(t, "organize", env.inbox)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "another quicksort instance")
}

func TestTokenCommand(t *testing.T) {
	env := newCLIEnv(t, "")
	_, err := env.run(t, "token")
	assert.Error(t, err)

	env = newCLIEnv(t, "auth:\n  secret: s3cret\n")
	out, err := env.run(t, "token", "--subject", "ops")
	require.NoError(t, err)

	signer := &jwtutil.Signer{Secret: []byte("s3cret"), Issuer: "quicksort", ExpMin: 60}
	claims, err := signer.Parse(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
}
