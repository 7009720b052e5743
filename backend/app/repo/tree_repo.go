package repo

import (
	"errors"

	"quicksort/backend/app/models"

	"gorm.io/gorm"
)

type TreeRepository struct {
	db *gorm.DB
}

func NewTreeRepository(db *gorm.DB) *TreeRepository {
	return &TreeRepository{db: db}
}

func (r *TreeRepository) Create(node *models.TreeNode) error {
	return r.db.Create(node).Error
}

// Get returns nil, nil when the node does not exist.
func (r *TreeRepository) Get(id uint) (*models.TreeNode, error) {
	var node models.TreeNode
	err := r.db.Where("id = ?", id).First(&node).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &node, nil
}

func (r *TreeRepository) GetByPath(path string) (*models.TreeNode, error) {
	var node models.TreeNode
	err := r.db.Where("path = ?", path).First(&node).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &node, nil
}

func (r *TreeRepository) List() ([]models.TreeNode, error) {
	var nodes []models.TreeNode
	err := r.db.Order("id ASC").Find(&nodes).Error
	return nodes, err
}

func (r *TreeRepository) Update(id uint, updates map[string]any) error {
	return r.db.Model(&models.TreeNode{}).Where("id = ?", id).Updates(updates).Error
}

func (r *TreeRepository) CountChildren(id uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.TreeNode{}).Where("parent_id = ?", id).Count(&n).Error
	return n, err
}

// Delete removes the node together with any inactive rules still bound to it.
func (r *TreeRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("node_id = ? AND is_active = ?", id, false).Delete(&models.OrganizationRule{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.TreeNode{}).Error
	})
}

type nodeRuleCount struct {
	NodeID uint
	N      int
}

// ActiveRuleCounts maps node id to its number of active rules.
func (r *TreeRepository) ActiveRuleCounts() (map[uint]int, error) {
	var rows []nodeRuleCount
	err := r.db.Model(&models.OrganizationRule{}).
		Select("node_id, count(*) as n").
		Where("is_active = ?", true).
		Group("node_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]int, len(rows))
	for _, row := range rows {
		out[row.NodeID] = row.N
	}
	return out, nil
}
