package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"quicksort/backend/app/dto"
	"quicksort/backend/app/fsutil"
	"quicksort/backend/app/models"
	"quicksort/backend/global"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	ActionMove = "move"
	ActionCopy = "copy"

	// StatusSkipped marks a file that was not eligible for organizing.
	StatusSkipped = "skipped"
)

type OrganizerService struct {
	classifier *Classifier
	logs       *FileLogService
	fs         fsutil.FS
	batch      sync.Mutex
	log        zerolog.Logger
}

func NewOrganizerService(classifier *Classifier, logs *FileLogService, fs fsutil.FS) *OrganizerService {
	return &OrganizerService{
		classifier: classifier,
		logs:       logs,
		fs:         fs,
		log:        global.Logger.With().Str("component", "organizer").Logger(),
	}
}

func normalizeAction(action string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "", ActionMove:
		return ActionMove, nil
	case ActionCopy:
		return ActionCopy, nil
	default:
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidInput, action)
	}
}

func logAction(action string) string {
	if action == ActionCopy {
		return models.ActionCopied
	}
	return models.ActionMoved
}

// inPlace reports whether path already sits directly in its destination folder.
func inPlace(path string, m *Match) bool {
	return m != nil && filepath.Dir(filepath.Clean(path)) == filepath.Clean(m.Node.Path)
}

func absDir(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

// Scan lists dir and classifies every eligible file without touching it.
// Files already sitting in their destination are left out.
func (o *OrganizerService) Scan(ctx context.Context, dir string, recursive bool) (*Snapshot, []dto.FileEntry, error) {
	dir = absDir(dir)
	if !o.fs.IsDir(dir) {
		return nil, nil, fmt.Errorf("%w: %s is not a directory", ErrFilesystem, dir)
	}
	snap, err := o.classifier.Snapshot()
	if err != nil {
		return nil, nil, err
	}
	inDest := snap.DestinationFilter(dir)
	files, err := o.fs.List(ctx, dir, recursive, inDest)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: list %s: %v", ErrFilesystem, dir, err)
	}
	entries := make([]dto.FileEntry, 0, len(files))
	for _, f := range files {
		if inDest(f.Path) {
			continue
		}
		m, _ := snap.Classify(f)
		if inPlace(f.Path, m) {
			continue
		}
		entries = append(entries, fileEntry(f, m))
	}
	return snap, entries, nil
}

// Preview reports where each file in dir would go. Nothing is moved or logged.
func (o *OrganizerService) Preview(ctx context.Context, dir string, recursive bool) (*dto.PreviewResult, error) {
	_, entries, err := o.Scan(ctx, dir, recursive)
	if err != nil {
		return nil, err
	}
	res := &dto.PreviewResult{Files: entries, TotalFiles: len(entries)}
	for _, e := range entries {
		if e.HasRule {
			res.FilesWithRules++
		}
	}
	res.FilesWithoutRules = res.TotalFiles - res.FilesWithRules
	return res, nil
}

// OrganizeFile classifies and relocates a single file. A file that already
// sits inside a destination folder is reported as skipped.
func (o *OrganizerService) OrganizeFile(ctx context.Context, path, action string) (*dto.FileResult, error) {
	action, err := normalizeAction(action)
	if err != nil {
		return nil, err
	}
	path = filepath.Clean(path)
	if !o.batch.TryLock() {
		return nil, ErrBatchInProgress
	}
	defer o.batch.Unlock()

	snap, err := o.classifier.Snapshot()
	if err != nil {
		return nil, err
	}
	if snap.InDestination(path) {
		return &dto.FileResult{
			Filename:     filepath.Base(path),
			OriginalPath: path,
			Action:       logAction(action),
			Status:       StatusSkipped,
			Error:        "file is already inside a destination folder",
		}, nil
	}
	batch, err := o.run(ctx, snap, []string{path}, action)
	if err != nil {
		return nil, err
	}
	return &batch.Results[0], nil
}

// OrganizeFolder organizes every eligible file in dir as one batch.
func (o *OrganizerService) OrganizeFolder(ctx context.Context, dir string, recursive bool, action string) (*dto.BatchResult, error) {
	action, err := normalizeAction(action)
	if err != nil {
		return nil, err
	}
	dir = absDir(dir)
	if !o.fs.IsDir(dir) {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrFilesystem, dir)
	}
	if !o.batch.TryLock() {
		return nil, ErrBatchInProgress
	}
	defer o.batch.Unlock()

	snap, err := o.classifier.Snapshot()
	if err != nil {
		return nil, err
	}
	inDest := snap.DestinationFilter(dir)
	files, err := o.fs.List(ctx, dir, recursive, inDest)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrFilesystem, dir, err)
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		if inDest(f.Path) {
			continue
		}
		if m, _ := snap.Classify(f); inPlace(f.Path, m) {
			continue
		}
		paths = append(paths, f.Path)
	}
	return o.run(ctx, snap, paths, action)
}

// OrganizePaths runs one batch over an explicit file list. Only one batch
// runs at a time; a concurrent call fails with ErrBatchInProgress.
func (o *OrganizerService) OrganizePaths(ctx context.Context, paths []string, action string) (*dto.BatchResult, error) {
	action, err := normalizeAction(action)
	if err != nil {
		return nil, err
	}
	if !o.batch.TryLock() {
		return nil, ErrBatchInProgress
	}
	defer o.batch.Unlock()

	snap, err := o.classifier.Snapshot()
	if err != nil {
		return nil, err
	}
	return o.run(ctx, snap, paths, action)
}

// run processes files sequentially: classify, move, log. Per-file failures are
// recorded and never abort the batch. The batch lock must be held.
func (o *OrganizerService) run(ctx context.Context, snap *Snapshot, paths []string, action string) (*dto.BatchResult, error) {
	res := &dto.BatchResult{BatchID: uuid.NewString(), Results: make([]dto.FileResult, 0, len(paths))}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		r := o.organizeOne(ctx, snap, res.BatchID, p, action)
		res.FilesProcessed++
		switch r.Status {
		case models.StatusSuccess:
			res.FilesMoved++
		case models.StatusFailed:
			res.FilesFailed++
		default:
			res.FilesSkipped++
		}
		res.Results = append(res.Results, r)
	}
	if res.FilesProcessed > 0 {
		o.log.Info().
			Str("batch", res.BatchID).
			Int("processed", res.FilesProcessed).
			Int("moved", res.FilesMoved).
			Int("failed", res.FilesFailed).
			Int("skipped", res.FilesSkipped).
			Msg("batch finished")
	}
	return res, nil
}

func (o *OrganizerService) organizeOne(ctx context.Context, snap *Snapshot, batchID, path, action string) dto.FileResult {
	path = filepath.Clean(path)
	res := dto.FileResult{Filename: filepath.Base(path), OriginalPath: path, Action: logAction(action)}
	entry := &models.FileLog{BatchID: batchID, Filename: res.Filename, OriginalPath: path, Action: res.Action}

	info, err := o.fs.Stat(path)
	if err != nil {
		res.Status = models.StatusFailed
		res.Error = fmt.Sprintf("%v: %v", ErrFilesystem, err)
		entry.Status, entry.ErrorMessage = res.Status, res.Error
		o.record(ctx, entry)
		return res
	}
	m, ok := snap.Classify(info)
	if !ok {
		res.Status = models.StatusPending
		entry.Status = models.StatusPending
		entry.ErrorMessage = "no matching rule"
		o.record(ctx, entry)
		return res
	}

	ruleID, nodeID := m.Rule.ID, m.Node.ID
	res.RuleID, res.NodeID, res.NodeName = &ruleID, &nodeID, m.Node.Name
	entry.RuleID, entry.NodeID = &ruleID, &nodeID
	if inPlace(path, m) {
		res.Status = StatusSkipped
		res.Error = "file is already in its destination folder"
		return res
	}

	if err := o.fs.MkdirAll(m.Node.Path); err != nil {
		return o.fail(ctx, res, entry, "", fmt.Errorf("create %s: %w", m.Node.Path, err))
	}
	dest := fsutil.UniquePath(o.fs, m.Node.Path, info.Name)
	if action == ActionCopy {
		err = o.fs.Copy(path, dest)
	} else {
		err = o.fs.Move(path, dest)
	}
	if err != nil {
		return o.fail(ctx, res, entry, dest, err)
	}

	res.Status = models.StatusSuccess
	res.DestinationPath = dest
	entry.Status = models.StatusSuccess
	entry.DestinationPath = &dest
	o.record(ctx, entry)
	o.log.Debug().Str("file", path).Str("dest", dest).Uint("rule", ruleID).Msg("file organized")
	return res
}

func (o *OrganizerService) fail(ctx context.Context, res dto.FileResult, entry *models.FileLog, dest string, err error) dto.FileResult {
	res.Status = models.StatusFailed
	res.Error = fmt.Sprintf("%v: %v", ErrFilesystem, err)
	res.DestinationPath = dest
	entry.Status = models.StatusFailed
	entry.ErrorMessage = res.Error
	if dest != "" {
		entry.DestinationPath = &dest
	}
	o.record(ctx, entry)
	o.log.Warn().Err(err).Str("file", res.OriginalPath).Msg("failed to organize file")
	return res
}

func (o *OrganizerService) record(ctx context.Context, entry *models.FileLog) {
	if err := o.logs.Record(ctx, entry); err != nil {
		o.log.Error().Err(err).Str("file", entry.OriginalPath).Msg("failed to write log entry")
	}
}

func fileEntry(f fsutil.FileInfo, m *Match) dto.FileEntry {
	e := dto.FileEntry{
		Path:       f.Path,
		Filename:   f.Name,
		Extension:  f.Ext(),
		Size:       f.Size,
		SizeHuman:  humanize.Bytes(uint64(f.Size)),
		ModifiedAt: f.ModTime,
	}
	if m != nil {
		ruleID := m.Rule.ID
		e.HasRule = true
		e.Destination = m.Node.Path
		e.DestinationName = m.Node.Name
		e.RuleID = &ruleID
	}
	return e
}
