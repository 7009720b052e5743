package models

import "time"

const (
	RuleTypeExtension = "extension"
	RuleTypeKeyword   = "keyword"
	RuleTypeSize      = "size"
	RuleTypeDate      = "date"
)

// OrganizationRule binds a filename/metadata predicate to a destination node.
type OrganizationRule struct {
	ID        uint      `gorm:"primaryKey"`
	NodeID    uint      `gorm:"index;not null"`
	RuleType  string    `gorm:"size:32;not null"`
	Pattern   string    `gorm:"size:255;not null"`
	Priority  int       `gorm:"index"`
	IsActive  bool      `gorm:"index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (OrganizationRule) TableName() string { return "organization_rules" }
