package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"quicksort/backend/app/dto"
	"quicksort/backend/app/fsutil"
	"quicksort/backend/app/models"
	"quicksort/backend/app/monitor"
	"quicksort/backend/app/repo"
	"quicksort/backend/config"
	"quicksort/backend/global"

	"github.com/rs/zerolog"
)

const stopTimeout = 3 * time.Second

// MonitorService owns the watch-folder configuration and the scan loop.
type MonitorService struct {
	cfgRepo   *repo.MonitorConfigRepository
	defaults  config.Monitor
	organizer *OrganizerService
	fs        fsutil.FS
	log       zerolog.Logger
	now       func() time.Time

	mu       sync.Mutex
	running  bool
	cancel   context.CancelFunc
	done     chan struct{}
	pending  int
	lastScan time.Time
	lastErr  string
}

func NewMonitorService(cfgRepo *repo.MonitorConfigRepository, organizer *OrganizerService, fs fsutil.FS, defaults config.Monitor) *MonitorService {
	if defaults.Interval <= 0 {
		defaults.Interval = 2 * time.Second
	}
	if defaults.ScanTimeout <= 0 {
		defaults.ScanTimeout = 30 * time.Second
	}
	return &MonitorService{
		cfgRepo:   cfgRepo,
		defaults:  defaults,
		organizer: organizer,
		fs:        fs,
		log:       global.Logger.With().Str("component", "monitor").Logger(),
		now:       time.Now,
	}
}

// Config returns the persisted configuration, seeding it on first use.
func (s *MonitorService) Config() (*models.MonitorConfig, error) {
	return s.cfgRepo.Get(models.MonitorConfig{
		WatchFolder:  s.defaults.WatchFolder,
		AutoOrganize: s.defaults.AutoOrganize,
		Recursive:    s.defaults.Recursive,
	})
}

func (s *MonitorService) GetConfig() (*dto.MonitorConfigResponse, error) {
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}
	return configToDTO(cfg), nil
}

// UpdateConfig persists the patch. A running loop picks it up on its next cycle.
func (s *MonitorService) UpdateConfig(req dto.MonitorConfigRequest) (*dto.MonitorConfigResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}
	if req.WatchFolder != nil {
		folder := strings.TrimSpace(*req.WatchFolder)
		if folder == "" {
			return nil, fmt.Errorf("%w: watch folder is required", ErrInvalidConfig)
		}
		abs, err := filepath.Abs(folder)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		cfg.WatchFolder = abs
	}
	if req.AutoOrganize != nil {
		cfg.AutoOrganize = *req.AutoOrganize
	}
	if req.Recursive != nil {
		cfg.Recursive = *req.Recursive
	}
	if err := s.cfgRepo.SaveSettings(cfg); err != nil {
		return nil, err
	}
	if cfg, err = s.Config(); err != nil {
		return nil, err
	}
	s.log.Info().Str("watch_folder", cfg.WatchFolder).Bool("auto_organize", cfg.AutoOrganize).Bool("recursive", cfg.Recursive).Msg("monitor config updated")
	return configToDTO(cfg), nil
}

func (s *MonitorService) validate(cfg *models.MonitorConfig) error {
	if strings.TrimSpace(cfg.WatchFolder) == "" {
		return fmt.Errorf("%w: watch folder is not set", ErrInvalidConfig)
	}
	if !s.fs.IsDir(cfg.WatchFolder) {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidConfig, cfg.WatchFolder)
	}
	return nil
}

// Start begins periodic scanning of the watch folder.
func (s *MonitorService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}
	if s.done != nil {
		select {
		case <-s.done:
		default:
			return fmt.Errorf("%w: previous loop is still stopping", ErrAlreadyRunning)
		}
	}

	cfg, err := s.Config()
	if err != nil {
		return err
	}
	if err := s.validate(cfg); err != nil {
		return err
	}
	if err := s.cfgRepo.SetActive(true); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true
	s.lastErr = ""
	go s.loop(ctx, s.done)

	s.log.Info().Str("watch_folder", cfg.WatchFolder).Dur("interval", s.defaults.Interval).Msg("monitor started")
	return nil
}

// Stop halts scanning and clears the persisted running flag.
func (s *MonitorService) Stop() error {
	if err := s.halt(); err != nil {
		return err
	}
	if err := s.cfgRepo.SetActive(false); err != nil {
		return err
	}
	s.log.Info().Msg("monitor stopped")
	return nil
}

// Shutdown halts scanning but keeps the running flag so the next boot resumes.
func (s *MonitorService) Shutdown() {
	if err := s.halt(); err == nil {
		s.log.Info().Msg("monitor halted for shutdown")
	}
}

func (s *MonitorService) halt() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.cancel()
	done := s.done
	s.running = false
	s.cancel = nil
	s.pending = 0
	s.mu.Unlock()

	select {
	case <-done:
	case <-time.After(stopTimeout):
		s.log.Warn().Msg("monitor loop did not exit in time")
	}
	return nil
}

// Restore restarts the monitor when it was running before the last shutdown.
func (s *MonitorService) Restore() {
	cfg, err := s.Config()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load monitor config")
		return
	}
	if !cfg.IsActive {
		return
	}
	if err := s.Start(); err != nil && !errors.Is(err, ErrAlreadyRunning) {
		s.log.Warn().Err(err).Msg("could not resume monitor")
		if err := s.cfgRepo.SetActive(false); err != nil {
			s.log.Error().Err(err).Msg("failed to clear monitor flag")
		}
	}
}

func (s *MonitorService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *MonitorService) Status() (*dto.MonitorStatus, error) {
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &dto.MonitorStatus{
		IsRunning:    s.running,
		PendingFiles: s.pending,
		WatchFolder:  cfg.WatchFolder,
		AutoOrganize: cfg.AutoOrganize,
		Recursive:    cfg.Recursive,
		LastError:    s.lastErr,
	}
	if !s.lastScan.IsZero() {
		t := s.lastScan
		st.LastScanAt = &t
	}
	return st, nil
}

// ListFiles scans the watch folder now and returns the classifier's view.
func (s *MonitorService) ListFiles(ctx context.Context) (*dto.FileListResponse, error) {
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}
	if err := s.validate(cfg); err != nil {
		return nil, err
	}
	_, entries, err := s.organizer.Scan(ctx, cfg.WatchFolder, cfg.Recursive)
	if err != nil {
		return nil, err
	}
	resp := &dto.FileListResponse{Files: entries, Total: len(entries)}
	for _, e := range entries {
		if e.HasRule {
			resp.WithRules++
		}
	}
	resp.WithoutRules = resp.Total - resp.WithRules
	return resp, nil
}

// OrganizeAll organizes the whole watch folder as one batch.
func (s *MonitorService) OrganizeAll(ctx context.Context) (*dto.BatchResult, error) {
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}
	if err := s.validate(cfg); err != nil {
		return nil, err
	}
	return s.organizer.OrganizeFolder(ctx, cfg.WatchFolder, cfg.Recursive, ActionMove)
}

// scanState is owned by one loop goroutine.
type scanState struct {
	seen     map[string]struct{}
	revision uint64
}

func (s *MonitorService) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.defaults.Interval)
	defer ticker.Stop()

	state := &scanState{seen: make(map[string]struct{})}
	var (
		w         *monitor.Watcher
		watched   string
		recursive bool
		events    <-chan monitor.Event
		debounce  <-chan time.Time
	)
	defer func() {
		if w != nil {
			_ = w.Close()
		}
	}()

	rewatch := func(cfg *models.MonitorConfig) {
		if cfg == nil || (w != nil && cfg.WatchFolder == watched && cfg.Recursive == recursive) {
			return
		}
		if w != nil {
			_ = w.Close()
			w, events = nil, nil
		}
		nw, err := monitor.NewWatcher(cfg.WatchFolder, cfg.Recursive, s.log)
		if err != nil {
			s.log.Debug().Err(err).Str("path", cfg.WatchFolder).Msg("file watcher unavailable, polling only")
			return
		}
		w, events = nw, nw.Events()
		watched, recursive = cfg.WatchFolder, cfg.Recursive
	}

	rewatch(s.cycle(ctx, state))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rewatch(s.cycle(ctx, state))
		case _, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if debounce == nil {
				debounce = time.After(s.defaults.SettleDelay)
			}
		case <-debounce:
			debounce = nil
			rewatch(s.cycle(ctx, state))
		}
	}
}

// cycle runs one scan and, with auto-organize on, one batch. Errors are
// recorded for Status and retried on the next cycle.
func (s *MonitorService) cycle(ctx context.Context, state *scanState) *models.MonitorConfig {
	if ctx.Err() != nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.defaults.ScanTimeout)
	defer cancel()

	cfg, err := s.Config()
	if err != nil {
		s.recordScan(0, err)
		return nil
	}
	if err := s.validate(cfg); err != nil {
		s.recordScan(0, err)
		return nil
	}

	snap, entries, err := s.organizer.Scan(ctx, cfg.WatchFolder, cfg.Recursive)
	if err != nil {
		s.recordScan(0, err)
		return cfg
	}
	s.recordScan(len(entries), nil)
	if !cfg.AutoOrganize || len(entries) == 0 {
		return cfg
	}

	if snap.Revision != state.revision {
		state.revision = snap.Revision
		clear(state.seen)
	}
	now := s.now()
	var paths, sigs []string
	for _, e := range entries {
		if now.Sub(e.ModifiedAt) < s.defaults.SettleDelay {
			continue
		}
		if !e.HasRule {
			// unclassified files are logged once per catalog revision
			sig := fmt.Sprintf("%s|%d|%d", e.Path, e.Size, e.ModifiedAt.UnixNano())
			if _, ok := state.seen[sig]; ok {
				continue
			}
			sigs = append(sigs, sig)
		}
		paths = append(paths, e.Path)
	}
	if len(paths) == 0 {
		return cfg
	}

	res, err := s.organizer.OrganizePaths(ctx, paths, ActionMove)
	switch {
	case errors.Is(err, ErrBatchInProgress):
		s.log.Debug().Msg("batch in progress, auto-organize deferred")
	case err != nil:
		s.recordScan(len(entries), err)
	default:
		for _, sig := range sigs {
			state.seen[sig] = struct{}{}
		}
		s.recordScan(len(entries)-res.FilesMoved, nil)
	}
	return cfg
}

func (s *MonitorService) recordScan(pending int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastScan = s.now()
	if err != nil {
		s.lastErr = err.Error()
		s.log.Warn().Err(err).Msg("scan failed")
		return
	}
	s.pending = pending
	s.lastErr = ""
}

func configToDTO(cfg *models.MonitorConfig) *dto.MonitorConfigResponse {
	return &dto.MonitorConfigResponse{
		WatchFolder:  cfg.WatchFolder,
		AutoOrganize: cfg.AutoOrganize,
		Recursive:    cfg.Recursive,
		IsActive:     cfg.IsActive,
		UpdatedAt:    cfg.UpdatedAt,
	}
}
