package tui

import "github.com/rgehrsitz/dealopt/internal/tui/tuistyles"

// Re-export styles from tuistyles to avoid import cycles
var (
	TitleStyle     = tuistyles.TitleStyle
	SubtitleStyle  = tuistyles.SubtitleStyle
	StatusBarStyle = tuistyles.StatusBarStyle
	StatusKeyStyle = tuistyles.StatusKeyStyle
	ErrorStyle     = tuistyles.ErrorStyle
	WarningStyle   = tuistyles.WarningStyle
	InfoStyle      = tuistyles.InfoStyle
	AppStyle       = tuistyles.AppStyle
	BorderStyle    = tuistyles.BorderStyle
)

// Re-export helper functions
var (
	FormatCurrency = tuistyles.FormatCurrency
)
