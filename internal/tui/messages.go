package tui

import (
	"github.com/rgehrsitz/dealopt/internal/catalog"
	"github.com/rgehrsitz/dealopt/internal/compare"
	"github.com/rgehrsitz/dealopt/internal/domain"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneScenarios Scene = iota
	SceneResults
	SceneLines
	SceneCompare
	SceneHelp
)

// Message types for the Bubble Tea update cycle

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// ConfigLoadedMsg signals the customer configuration has been loaded
type ConfigLoadedMsg struct {
	Config *domain.CustomerConfiguration
}

// QuoteCompleteMsg carries a finished quote. Seq discards results of superseded edits.
type QuoteCompleteMsg struct {
	Seq    int
	Result *domain.QuoteResult
	Err    error
}

// ComparisonCompleteMsg carries a finished what-if comparison
type ComparisonCompleteMsg struct {
	Set *compare.ComparisonSet
	Err error
}

// TablesReloadedMsg is sent by the table watcher after each reload attempt.
// On error the previous tables stay in effect.
type TablesReloadedMsg struct {
	Snapshot *catalog.Snapshot
	Err      error
}
