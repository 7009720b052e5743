package repo

import (
	"errors"

	"quicksort/backend/app/models"

	"gorm.io/gorm"
)

type RuleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

func (r *RuleRepository) Create(rule *models.OrganizationRule) error {
	return r.db.Create(rule).Error
}

func (r *RuleRepository) Get(id uint) (*models.OrganizationRule, error) {
	var rule models.OrganizationRule
	err := r.db.Where("id = ?", id).First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// List returns rules in evaluation order: priority descending, then id.
func (r *RuleRepository) List() ([]models.OrganizationRule, error) {
	var rules []models.OrganizationRule
	err := r.db.Order("priority DESC").Order("id ASC").Find(&rules).Error
	return rules, err
}

func (r *RuleRepository) ListActive() ([]models.OrganizationRule, error) {
	var rules []models.OrganizationRule
	err := r.db.Where("is_active = ?", true).Order("priority DESC").Order("id ASC").Find(&rules).Error
	return rules, err
}

func (r *RuleRepository) Update(id uint, updates map[string]any) error {
	return r.db.Model(&models.OrganizationRule{}).Where("id = ?", id).Updates(updates).Error
}

func (r *RuleRepository) Delete(id uint) error {
	return r.db.Where("id = ?", id).Delete(&models.OrganizationRule{}).Error
}

func (r *RuleRepository) CountActiveByNode(nodeID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.OrganizationRule{}).Where("node_id = ? AND is_active = ?", nodeID, true).Count(&n).Error
	return n, err
}
