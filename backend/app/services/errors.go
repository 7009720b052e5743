package services

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidParent   = errors.New("invalid parent")
	ErrDuplicatePath   = errors.New("duplicate path")
	ErrNodeNotFound    = errors.New("node not found")
	ErrNodeHasChildren = errors.New("node has children")
	ErrNodeHasRules    = errors.New("node has active rules")
	ErrRuleNotFound    = errors.New("rule not found")
	ErrInvalidRule     = errors.New("invalid rule")

	ErrAlreadyRunning = errors.New("monitor already running")
	ErrNotRunning     = errors.New("monitor not running")
	ErrInvalidConfig  = errors.New("invalid monitor config")

	ErrFilesystem      = errors.New("filesystem error")
	ErrBatchInProgress = errors.New("organization batch already in progress")

	// ErrClassificationAmbiguous is reserved: ties on priority resolve by rule id.
	ErrClassificationAmbiguous = errors.New("classification ambiguous")
)
