package repo

import (
	"quicksort/backend/app/models"

	"gorm.io/gorm"
)

type MonitorConfigRepository struct {
	db *gorm.DB
}

func NewMonitorConfigRepository(db *gorm.DB) *MonitorConfigRepository {
	return &MonitorConfigRepository{db: db}
}

// Get loads the singleton row, seeding it from defaults on first use.
func (r *MonitorConfigRepository) Get(defaults models.MonitorConfig) (*models.MonitorConfig, error) {
	defaults.ID = models.MonitorConfigID
	var cfg models.MonitorConfig
	err := r.db.Where("id = ?", models.MonitorConfigID).Attrs(defaults).FirstOrCreate(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *MonitorConfigRepository) Save(cfg *models.MonitorConfig) error {
	cfg.ID = models.MonitorConfigID
	return r.db.Save(cfg).Error
}

// SaveSettings writes the user-editable columns and leaves is_active to
// SetActive.
func (r *MonitorConfigRepository) SaveSettings(cfg *models.MonitorConfig) error {
	cfg.ID = models.MonitorConfigID
	return r.db.Model(cfg).Select("WatchFolder", "AutoOrganize", "Recursive").Updates(cfg).Error
}

func (r *MonitorConfigRepository) SetActive(active bool) error {
	return r.db.Model(&models.MonitorConfig{}).Where("id = ?", models.MonitorConfigID).Update("is_active", active).Error
}
