package services

import (
	"testing"
	"time"

	"quicksort/backend/app/fsutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classify(t *testing.T, h *harness, name string, size int64) (*Match, bool) {
	t.Helper()
	snap, err := h.organizer.classifier.Snapshot()
	require.NoError(t, err)
	return snap.Classify(fsutil.FileInfo{Name: name, Size: size, ModTime: time.Now()})
}

func TestClassifyHigherPriorityWins(t *testing.T) {
	h := newHarness(t)
	docs := h.node(t, "Documents", nil)
	invoices := h.node(t, "Invoices", nil)
	h.rule(t, docs.ID, "extension", ".pdf", 10)
	h.rule(t, invoices.ID, "keyword", "invoice", 5)

	m, ok := classify(t, h, "invoice_report.pdf", 100)
	require.True(t, ok)
	assert.Equal(t, "Documents", m.Node.Name)

	m, ok = classify(t, h, "invoice_report.docx", 100)
	require.True(t, ok)
	assert.Equal(t, "Invoices", m.Node.Name)

	_, ok = classify(t, h, "holiday.jpg", 100)
	assert.False(t, ok)
}

func TestClassifyTieBreaksOnRuleID(t *testing.T) {
	h := newHarness(t)
	first := h.node(t, "First", nil)
	second := h.node(t, "Second", nil)
	h.rule(t, first.ID, "extension", "txt", 1)
	h.rule(t, second.ID, "keyword", "notes", 1)

	m, ok := classify(t, h, "notes.txt", 1)
	require.True(t, ok)
	assert.Equal(t, "First", m.Node.Name)
}

func TestClassifySkipsInactiveRules(t *testing.T) {
	h := newHarness(t)
	big := h.node(t, "Big", nil)
	other := h.node(t, "Other", nil)
	r := h.rule(t, big.ID, "size", ">1MB", 100)
	h.rule(t, other.ID, "extension", "iso", 0)

	m, ok := classify(t, h, "disk.iso", 5_000_000)
	require.True(t, ok)
	assert.Equal(t, "Big", m.Node.Name)

	_, err := h.rules.SetActive(r.ID, false)
	require.NoError(t, err)

	m, ok = classify(t, h, "disk.iso", 5_000_000)
	require.True(t, ok)
	assert.Equal(t, "Other", m.Node.Name)
}

func TestSnapshotRevisionTracksCatalog(t *testing.T) {
	h := newHarness(t)
	snap1, err := h.organizer.classifier.Snapshot()
	require.NoError(t, err)
	h.node(t, "A", nil)
	snap2, err := h.organizer.classifier.Snapshot()
	require.NoError(t, err)
	assert.NotEqual(t, snap1.Revision, snap2.Revision)
	assert.False(t, snap2.HasRules())
}
