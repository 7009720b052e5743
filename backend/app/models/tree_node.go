package models

import "time"

const NodeTypeFolder = "folder"

// TreeNode is a destination folder in the organization catalog.
type TreeNode struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	Path      string    `gorm:"size:512;uniqueIndex;not null"`
	ParentID  *uint     `gorm:"index"`
	NodeType  string    `gorm:"size:32;default:folder"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (TreeNode) TableName() string { return "tree_nodes" }
