package services

import (
	"context"
	"time"

	"quicksort/backend/app/dto"
	"quicksort/backend/app/models"
	"quicksort/backend/app/notify"
	"quicksort/backend/app/repo"
	"quicksort/backend/global"

	"github.com/rs/zerolog"
)

const (
	DefaultLogLimit = 100
	MaxLogLimit     = 1000
)

type FileLogService struct {
	repo *repo.FileLogRepository
	pub  notify.Publisher
	log  zerolog.Logger
}

func NewFileLogService(r *repo.FileLogRepository, pub notify.Publisher) *FileLogService {
	if pub == nil {
		pub = notify.Nop{}
	}
	return &FileLogService{repo: r, pub: pub, log: global.Logger.With().Str("component", "filelog").Logger()}
}

// Record appends entry and publishes it. Publishing is best effort.
func (s *FileLogService) Record(ctx context.Context, entry *models.FileLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if err := s.repo.Create(entry); err != nil {
		return err
	}
	if err := s.pub.PublishLog(ctx, logToDTO(entry)); err != nil {
		s.log.Warn().Err(err).Uint("id", entry.ID).Msg("failed to publish log entry")
	}
	return nil
}

// List returns the most recent entries first.
func (s *FileLogService) List(limit int) ([]dto.LogEntry, error) {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	if limit > MaxLogLimit {
		limit = MaxLogLimit
	}
	logs, err := s.repo.Latest(limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LogEntry, 0, len(logs))
	for i := range logs {
		out = append(out, logToDTO(&logs[i]))
	}
	return out, nil
}

// ListBatch returns the entries of one organize batch in processing order.
func (s *FileLogService) ListBatch(batchID string) ([]dto.LogEntry, error) {
	logs, err := s.repo.ListByBatch(batchID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LogEntry, 0, len(logs))
	for i := range logs {
		out = append(out, logToDTO(&logs[i]))
	}
	return out, nil
}

func (s *FileLogService) Stats() (*dto.LogStats, error) {
	counts, err := s.repo.CountByStatus()
	if err != nil {
		return nil, err
	}
	st := &dto.LogStats{
		Success: counts[models.StatusSuccess],
		Failed:  counts[models.StatusFailed],
		Pending: counts[models.StatusPending],
	}
	for _, n := range counts {
		st.Total += n
	}
	return st, nil
}

func logToDTO(l *models.FileLog) dto.LogEntry {
	return dto.LogEntry{
		ID:              l.ID,
		BatchID:         l.BatchID,
		Filename:        l.Filename,
		OriginalPath:    l.OriginalPath,
		DestinationPath: l.DestinationPath,
		RuleID:          l.RuleID,
		NodeID:          l.NodeID,
		Action:          l.Action,
		Status:          l.Status,
		ErrorMessage:    l.ErrorMessage,
		Timestamp:       l.Timestamp,
	}
}
