package services

import (
	"fmt"
	"strings"

	"quicksort/backend/app/dto"
	"quicksort/backend/app/models"
	"quicksort/backend/app/repo"
	"quicksort/backend/global"

	"github.com/rs/zerolog"
)

type RuleService struct {
	catalog *Catalog
	rules   *repo.RuleRepository
	nodes   *repo.TreeRepository
	log     zerolog.Logger
}

func NewRuleService(catalog *Catalog, rules *repo.RuleRepository, nodes *repo.TreeRepository) *RuleService {
	return &RuleService{
		catalog: catalog,
		rules:   rules,
		nodes:   nodes,
		log:     global.Logger.With().Str("component", "rules").Logger(),
	}
}

// ListRules returns every rule in evaluation order.
func (s *RuleService) ListRules() ([]dto.RuleResponse, error) {
	s.catalog.mu.RLock()
	defer s.catalog.mu.RUnlock()

	rules, err := s.rules.List()
	if err != nil {
		return nil, err
	}
	nodes, err := s.nodes.List()
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(nodes))
	for _, n := range nodes {
		names[n.ID] = n.Name
	}
	out := make([]dto.RuleResponse, 0, len(rules))
	for i := range rules {
		out = append(out, *ruleToDTO(&rules[i], names[rules[i].NodeID]))
	}
	return out, nil
}

func (s *RuleService) CreateRule(req dto.RuleRequest) (*dto.RuleResponse, error) {
	ruleType := strings.ToLower(strings.TrimSpace(req.RuleType))
	pattern := strings.TrimSpace(req.Pattern)
	if _, err := CompileRule(ruleType, pattern); err != nil {
		return nil, err
	}

	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	node, err := s.nodes.Get(req.NodeID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, req.NodeID)
	}

	rule := &models.OrganizationRule{
		NodeID:   req.NodeID,
		RuleType: ruleType,
		Pattern:  pattern,
		Priority: req.Priority,
		IsActive: true,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if err := s.rules.Create(rule); err != nil {
		return nil, err
	}
	s.catalog.bump()
	s.log.Info().Uint("id", rule.ID).Str("type", ruleType).Str("pattern", pattern).Uint("node", node.ID).Msg("rule created")
	return ruleToDTO(rule, node.Name), nil
}

// UpdateRule applies a partial update; the resulting type/pattern pair is re-validated.
func (s *RuleService) UpdateRule(id uint, req dto.RuleUpdateRequest) (*dto.RuleResponse, error) {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	rule, err := s.rules.Get(id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ErrRuleNotFound
	}

	updates := make(map[string]any)
	ruleType, pattern := rule.RuleType, rule.Pattern
	if req.RuleType != nil {
		ruleType = strings.ToLower(strings.TrimSpace(*req.RuleType))
		updates["rule_type"] = ruleType
	}
	if req.Pattern != nil {
		pattern = strings.TrimSpace(*req.Pattern)
		updates["pattern"] = pattern
	}
	if req.RuleType != nil || req.Pattern != nil {
		if _, err := CompileRule(ruleType, pattern); err != nil {
			return nil, err
		}
	}
	if req.NodeID != nil {
		node, err := s.nodes.Get(*req.NodeID)
		if err != nil {
			return nil, err
		}
		if node == nil {
			return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, *req.NodeID)
		}
		updates["node_id"] = *req.NodeID
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.rules.Update(id, updates); err != nil {
			return nil, err
		}
		s.catalog.bump()
	}
	return s.reload(id)
}

// SetActive toggles whether the rule takes part in classification.
func (s *RuleService) SetActive(id uint, active bool) (*dto.RuleResponse, error) {
	return s.UpdateRule(id, dto.RuleUpdateRequest{IsActive: &active})
}

func (s *RuleService) DeleteRule(id uint) error {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	rule, err := s.rules.Get(id)
	if err != nil {
		return err
	}
	if rule == nil {
		return ErrRuleNotFound
	}
	if err := s.rules.Delete(id); err != nil {
		return err
	}
	s.catalog.bump()
	s.log.Info().Uint("id", id).Msg("rule deleted")
	return nil
}

// reload expects the catalog lock to be held.
func (s *RuleService) reload(id uint) (*dto.RuleResponse, error) {
	rule, err := s.rules.Get(id)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ErrRuleNotFound
	}
	name := ""
	if node, err := s.nodes.Get(rule.NodeID); err != nil {
		return nil, err
	} else if node != nil {
		name = node.Name
	}
	return ruleToDTO(rule, name), nil
}

func ruleToDTO(r *models.OrganizationRule, nodeName string) *dto.RuleResponse {
	return &dto.RuleResponse{
		ID:        r.ID,
		NodeID:    r.NodeID,
		NodeName:  nodeName,
		RuleType:  r.RuleType,
		Pattern:   r.Pattern,
		Priority:  r.Priority,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
	}
}
