package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"quicksort/backend/app/dto"
	"quicksort/backend/app/fsutil"
	"quicksort/backend/app/models"
	"quicksort/backend/app/repo"
	"quicksort/backend/global"

	"github.com/rs/zerolog"
)

type TreeService struct {
	catalog  *Catalog
	repo     *repo.TreeRepository
	rules    *repo.RuleRepository
	fs       fsutil.FS
	rootPath string
	maxDepth int
	log      zerolog.Logger
}

func NewTreeService(catalog *Catalog, repo *repo.TreeRepository, rules *repo.RuleRepository, fs fsutil.FS, rootPath string, maxDepth int) *TreeService {
	return &TreeService{
		catalog:  catalog,
		repo:     repo,
		rules:    rules,
		fs:       fs,
		rootPath: rootPath,
		maxDepth: maxDepth,
		log:      global.Logger.With().Str("component", "tree").Logger(),
	}
}

func normalizePath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", fmt.Errorf("%w: path is required", ErrInvalidInput)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return abs, nil
}

// nodeIndex is an id lookup plus a children index over the flat node set.
type nodeIndex struct {
	byID     map[uint]*models.TreeNode
	children map[uint][]uint
}

func buildIndex(nodes []models.TreeNode) nodeIndex {
	idx := nodeIndex{byID: make(map[uint]*models.TreeNode, len(nodes)), children: make(map[uint][]uint)}
	for i := range nodes {
		n := &nodes[i]
		idx.byID[n.ID] = n
		if n.ParentID != nil {
			idx.children[*n.ParentID] = append(idx.children[*n.ParentID], n.ID)
		}
	}
	return idx
}

// depth counts the nodes from id up to its top-level ancestor, inclusive.
func (idx nodeIndex) depth(id uint) int {
	d := 0
	for cur, ok := idx.byID[id]; ok; {
		d++
		if cur.ParentID == nil || d > len(idx.byID) {
			break
		}
		cur, ok = idx.byID[*cur.ParentID]
	}
	return d
}

// isAncestorOrSelf reports whether anc is id or one of its ancestors.
func (idx nodeIndex) isAncestorOrSelf(anc, id uint) bool {
	steps := 0
	for cur, ok := idx.byID[id]; ok && steps <= len(idx.byID); steps++ {
		if cur.ID == anc {
			return true
		}
		if cur.ParentID == nil {
			return false
		}
		cur, ok = idx.byID[*cur.ParentID]
	}
	return false
}

// height is the number of levels in the subtree rooted at id.
func (idx nodeIndex) height(id uint) int {
	h := 0
	for _, c := range idx.children[id] {
		if ch := idx.height(c); ch > h {
			h = ch
		}
	}
	return h + 1
}

// CreateNode registers a destination folder and creates it on disk.
func (s *TreeService) CreateNode(req dto.NodeRequest) (*dto.NodeResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	path, err := normalizePath(req.Path)
	if err != nil {
		return nil, err
	}

	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	nodes, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	idx := buildIndex(nodes)
	if req.ParentID != nil {
		if _, ok := idx.byID[*req.ParentID]; !ok {
			return nil, fmt.Errorf("%w: parent %d does not exist", ErrInvalidParent, *req.ParentID)
		}
		if idx.depth(*req.ParentID)+1 > s.maxDepth {
			return nil, fmt.Errorf("%w: maximum depth %d exceeded", ErrInvalidParent, s.maxDepth)
		}
	}
	if existing, err := s.repo.GetByPath(path); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, path)
	}

	node := &models.TreeNode{Name: name, Path: path, ParentID: req.ParentID, NodeType: models.NodeTypeFolder}
	if err := s.repo.Create(node); err != nil {
		return nil, err
	}
	s.catalog.bump()

	if err := s.fs.MkdirAll(path); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("could not create destination folder")
	}
	s.log.Info().Uint("id", node.ID).Str("path", path).Msg("node created")
	return nodeToDTO(node, 0), nil
}

// UpdateNode renames, re-paths or re-parents a node. Files already organized
// into the old path stay where they are.
func (s *TreeService) UpdateNode(id uint, req dto.NodeUpdateRequest) (*dto.NodeResponse, error) {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	nodes, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	idx := buildIndex(nodes)
	node, ok := idx.byID[id]
	if !ok {
		return nil, ErrNodeNotFound
	}

	updates := make(map[string]any)
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		updates["name"] = name
	}

	pathChanged := false
	if req.Path != nil {
		path, err := normalizePath(*req.Path)
		if err != nil {
			return nil, err
		}
		if path != node.Path {
			existing, err := s.repo.GetByPath(path)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != id {
				return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, path)
			}
			updates["path"] = path
			pathChanged = true
		}
	}

	switch {
	case req.ClearParent:
		updates["parent_id"] = nil
	case req.ParentID != nil:
		pid := *req.ParentID
		if _, ok := idx.byID[pid]; !ok {
			return nil, fmt.Errorf("%w: parent %d does not exist", ErrInvalidParent, pid)
		}
		if idx.isAncestorOrSelf(id, pid) {
			return nil, fmt.Errorf("%w: node %d cannot be moved under itself", ErrInvalidParent, id)
		}
		if idx.depth(pid)+idx.height(id) > s.maxDepth {
			return nil, fmt.Errorf("%w: maximum depth %d exceeded", ErrInvalidParent, s.maxDepth)
		}
		updates["parent_id"] = pid
	}

	if len(updates) > 0 {
		if err := s.repo.Update(id, updates); err != nil {
			return nil, err
		}
		s.catalog.bump()
	}

	updated, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNodeNotFound
	}
	if pathChanged {
		if err := s.fs.MkdirAll(updated.Path); err != nil {
			s.log.Warn().Err(err).Str("path", updated.Path).Msg("could not create destination folder")
		}
	}
	counts, err := s.repo.ActiveRuleCounts()
	if err != nil {
		return nil, err
	}
	return nodeToDTO(updated, counts[id]), nil
}

// DeleteNode removes a leaf node that no active rule points at.
func (s *TreeService) DeleteNode(id uint) error {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	node, err := s.repo.Get(id)
	if err != nil {
		return err
	}
	if node == nil {
		return ErrNodeNotFound
	}
	children, err := s.repo.CountChildren(id)
	if err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("%w: %d child node(s)", ErrNodeHasChildren, children)
	}
	active, err := s.rules.CountActiveByNode(id)
	if err != nil {
		return err
	}
	if active > 0 {
		return fmt.Errorf("%w: %d active rule(s)", ErrNodeHasRules, active)
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.catalog.bump()
	s.log.Info().Uint("id", id).Str("path", node.Path).Msg("node deleted")
	return nil
}

func (s *TreeService) GetNode(id uint) (*dto.NodeResponse, error) {
	s.catalog.mu.RLock()
	defer s.catalog.mu.RUnlock()

	node, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, ErrNodeNotFound
	}
	counts, err := s.repo.ActiveRuleCounts()
	if err != nil {
		return nil, err
	}
	return nodeToDTO(node, counts[id]), nil
}

func (s *TreeService) ListNodes() ([]dto.NodeResponse, error) {
	s.catalog.mu.RLock()
	defer s.catalog.mu.RUnlock()

	nodes, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.ActiveRuleCounts()
	if err != nil {
		return nil, err
	}
	out := make([]dto.NodeResponse, 0, len(nodes))
	for i := range nodes {
		out = append(out, *nodeToDTO(&nodes[i], counts[nodes[i].ID]))
	}
	return out, nil
}

// GetTree assembles the hierarchy from the flat node set. A single top-level
// node is returned as the root; otherwise a synthetic root wraps them.
func (s *TreeService) GetTree() (*dto.TreeResponse, error) {
	s.catalog.mu.RLock()
	defer s.catalog.mu.RUnlock()

	nodes, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.ActiveRuleCounts()
	if err != nil {
		return nil, err
	}

	built := make(map[uint]*dto.TreeNodeResponse, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		built[n.ID] = &dto.TreeNodeResponse{NodeResponse: *nodeToDTO(n, counts[n.ID]), Children: []*dto.TreeNodeResponse{}}
	}

	var tops []*dto.TreeNodeResponse
	for i := range nodes {
		n := &nodes[i]
		if n.ParentID != nil {
			if parent, ok := built[*n.ParentID]; ok {
				parent.Children = append(parent.Children, built[n.ID])
				continue
			}
		}
		tops = append(tops, built[n.ID])
	}

	hasRules := false
	for _, c := range counts {
		if c > 0 {
			hasRules = true
			break
		}
	}

	resp := &dto.TreeResponse{TotalNodes: len(nodes), HasRules: hasRules}
	if len(tops) == 1 {
		resp.Root = tops[0]
		return resp, nil
	}
	if tops == nil {
		tops = []*dto.TreeNodeResponse{}
	}
	resp.Root = &dto.TreeNodeResponse{
		NodeResponse: dto.NodeResponse{Name: "Root", Path: s.rootPath, NodeType: models.NodeTypeFolder},
		Children:     tops,
	}
	return resp, nil
}

func nodeToDTO(n *models.TreeNode, rulesCount int) *dto.NodeResponse {
	return &dto.NodeResponse{
		ID:         n.ID,
		Name:       n.Name,
		Path:       n.Path,
		ParentID:   n.ParentID,
		NodeType:   n.NodeType,
		CreatedAt:  n.CreatedAt,
		RulesCount: rulesCount,
	}
}
