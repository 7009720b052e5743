package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"quicksort/backend/app/db"
	"quicksort/backend/app/dto"
	"quicksort/backend/app/fsutil"
	"quicksort/backend/app/models"
	"quicksort/backend/app/repo"
	"quicksort/backend/config"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingPublisher keeps published entries in memory.
type recordingPublisher struct {
	mu      sync.Mutex
	entries []dto.LogEntry
}

func (r *recordingPublisher) PublishLog(_ context.Context, entry dto.LogEntry) error {
	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
	return nil
}

func (r *recordingPublisher) Entries() []dto.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]dto.LogEntry(nil), r.entries...)
}

type harness struct {
	db        *gorm.DB
	root      string
	inbox     string
	catalog   *Catalog
	tree      *TreeService
	rules     *RuleService
	logs      *FileLogService
	organizer *OrganizerService
	monitor   *MonitorService
	published *recordingPublisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	gdb, err := db.Connect(db.Config{Driver: "sqlite", Path: filepath.Join(dir, "test.db")})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.TreeNode{}, &models.OrganizationRule{}, &models.FileLog{}, &models.MonitorConfig{}))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	h := &harness{
		db:        gdb,
		root:      filepath.Join(dir, "Organized"),
		inbox:     filepath.Join(dir, "inbox"),
		catalog:   NewCatalog(),
		published: &recordingPublisher{},
	}
	require.NoError(t, os.MkdirAll(h.inbox, 0o755))

	fsys := fsutil.OS{}
	treeRepo := repo.NewTreeRepository(gdb)
	ruleRepo := repo.NewRuleRepository(gdb)
	h.tree = NewTreeService(h.catalog, treeRepo, ruleRepo, fsys, h.root, 10)
	h.rules = NewRuleService(h.catalog, ruleRepo, treeRepo)
	h.logs = NewFileLogService(repo.NewFileLogRepository(gdb), h.published)
	h.organizer = NewOrganizerService(NewClassifier(h.catalog, treeRepo, ruleRepo), h.logs, fsys)
	h.monitor = NewMonitorService(repo.NewMonitorConfigRepository(gdb), h.organizer, fsys, config.Monitor{
		Interval:    50 * time.Millisecond,
		SettleDelay: 0,
		ScanTimeout: 5 * time.Second,
	})
	t.Cleanup(h.monitor.Shutdown)
	return h
}

func (h *harness) node(t *testing.T, name string, parent *uint) *dto.NodeResponse {
	t.Helper()
	path := filepath.Join(h.root, name)
	if parent != nil {
		p, err := h.tree.GetNode(*parent)
		require.NoError(t, err)
		path = filepath.Join(p.Path, name)
	}
	n, err := h.tree.CreateNode(dto.NodeRequest{Name: name, Path: path, ParentID: parent})
	require.NoError(t, err)
	return n
}

func (h *harness) rule(t *testing.T, nodeID uint, ruleType, pattern string, priority int) *dto.RuleResponse {
	t.Helper()
	r, err := h.rules.CreateRule(dto.RuleRequest{NodeID: nodeID, RuleType: ruleType, Pattern: pattern, Priority: priority})
	require.NoError(t, err)
	return r
}

func writeFile(t *testing.T, path, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func ptr[T any](v T) *T { return &v }

func dtoNode(name, path string) dto.NodeRequest {
	return dto.NodeRequest{Name: name, Path: path}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
