package repo

import (
	"quicksort/backend/app/models"

	"gorm.io/gorm"
)

type FileLogRepository struct{ db *gorm.DB }

func NewFileLogRepository(db *gorm.DB) *FileLogRepository { return &FileLogRepository{db: db} }

func (r *FileLogRepository) Create(l *models.FileLog) error { return r.db.Create(l).Error }

func (r *FileLogRepository) Latest(limit int) ([]models.FileLog, error) {
	if limit <= 0 {
		limit = 1
	}
	var logs []models.FileLog
	err := r.db.Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

func (r *FileLogRepository) ListByBatch(batchID string) ([]models.FileLog, error) {
	var logs []models.FileLog
	err := r.db.Where("batch_id = ?", batchID).Order("id ASC").Find(&logs).Error
	return logs, err
}

type statusCount struct {
	Status string
	N      int64
}

// CountByStatus returns the number of entries per status value.
func (r *FileLogRepository) CountByStatus() (map[string]int64, error) {
	var rows []statusCount
	err := r.db.Model(&models.FileLog{}).Select("status, count(*) as n").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}
