package services

import (
	"time"

	"quicksort/backend/app/fsutil"
	"quicksort/backend/app/models"
	"quicksort/backend/app/repo"
	"quicksort/backend/global"

	"github.com/rs/zerolog"
)

// Match is the winning rule and its destination node.
type Match struct {
	Rule models.OrganizationRule
	Node models.TreeNode
}

type compiledRule struct {
	rule    models.OrganizationRule
	node    models.TreeNode
	matcher Matcher
}

// Snapshot is an immutable, compiled view of the active rules.
type Snapshot struct {
	Revision uint64
	rules    []compiledRule
	nodes    []models.TreeNode
	now      func() time.Time
}

type Classifier struct {
	catalog *Catalog
	nodes   *repo.TreeRepository
	rules   *repo.RuleRepository
	log     zerolog.Logger
	now     func() time.Time
}

func NewClassifier(catalog *Catalog, nodes *repo.TreeRepository, rules *repo.RuleRepository) *Classifier {
	return &Classifier{
		catalog: catalog,
		nodes:   nodes,
		rules:   rules,
		log:     global.Logger.With().Str("component", "classifier").Logger(),
		now:     time.Now,
	}
}

// Snapshot loads and compiles the active rules in evaluation order.
func (c *Classifier) Snapshot() (*Snapshot, error) {
	c.catalog.mu.RLock()
	defer c.catalog.mu.RUnlock()

	nodes, err := c.nodes.List()
	if err != nil {
		return nil, err
	}
	rules, err := c.rules.ListActive()
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]models.TreeNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	snap := &Snapshot{Revision: c.catalog.Revision(), nodes: nodes, now: c.now}
	for _, r := range rules {
		node, ok := byID[r.NodeID]
		if !ok {
			c.log.Warn().Uint("rule", r.ID).Uint("node", r.NodeID).Msg("rule references missing node, skipped")
			continue
		}
		m, err := CompileRule(r.RuleType, r.Pattern)
		if err != nil {
			c.log.Warn().Err(err).Uint("rule", r.ID).Msg("rule pattern invalid, skipped")
			continue
		}
		snap.rules = append(snap.rules, compiledRule{rule: r, node: node, matcher: m})
	}
	return snap, nil
}

// Classify evaluates f against a fresh snapshot.
func (c *Classifier) Classify(f fsutil.FileInfo) (*Match, bool, error) {
	snap, err := c.Snapshot()
	if err != nil {
		return nil, false, err
	}
	m, ok := snap.Classify(f)
	return m, ok, nil
}

// Classify returns the first matching rule: highest priority, lowest id on ties.
func (s *Snapshot) Classify(f fsutil.FileInfo) (*Match, bool) {
	now := s.now()
	for _, cr := range s.rules {
		if cr.matcher.Match(f, now) {
			return &Match{Rule: cr.rule, Node: cr.node}, true
		}
	}
	return nil, false
}

// DestinationFilter returns a predicate reporting whether a path under root
// lies inside a node's folder. Nodes that contain root itself are ignored so
// a scan rooted inside the catalog still sees its own files.
func (s *Snapshot) DestinationFilter(root string) func(path string) bool {
	var dirs []string
	for _, n := range s.nodes {
		if !fsutil.Within(root, n.Path) {
			dirs = append(dirs, n.Path)
		}
	}
	return func(path string) bool {
		for _, d := range dirs {
			if fsutil.Within(path, d) {
				return true
			}
		}
		return false
	}
}

// InDestination reports whether path lies inside any node's folder.
func (s *Snapshot) InDestination(path string) bool {
	for _, n := range s.nodes {
		if fsutil.Within(path, n.Path) {
			return true
		}
	}
	return false
}

// HasRules reports whether any active rule can classify a file.
func (s *Snapshot) HasRules() bool { return len(s.rules) > 0 }
