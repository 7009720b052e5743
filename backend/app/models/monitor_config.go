package models

import "time"

// MonitorConfigID is the primary key of the single monitor_config row.
const MonitorConfigID = 1

type MonitorConfig struct {
	ID           uint   `gorm:"primaryKey"`
	WatchFolder  string `gorm:"size:1024"`
	AutoOrganize bool
	Recursive    bool
	IsActive     bool
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (MonitorConfig) TableName() string { return "monitor_config" }
