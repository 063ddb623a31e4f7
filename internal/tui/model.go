package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/dealopt/internal/compare"
	"github.com/rgehrsitz/dealopt/internal/config"
	"github.com/rgehrsitz/dealopt/internal/domain"
	"github.com/rgehrsitz/dealopt/internal/transform"
	"github.com/rgehrsitz/dealopt/internal/tui/scenes"
)

// Engine prices configurations for the viewer. calculation.DealOptimizer satisfies it.
type Engine interface {
	compare.Quoter
	Policy() domain.DefaultsPolicy
}

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// base is the configuration as loaded; working is base with edits applied
	configPath string
	base       *domain.CustomerConfiguration
	working    *domain.CustomerConfiguration
	edits      []transform.ConfigTransform

	engine Engine

	// quoteSeq numbers requotes so a slow result cannot overwrite a newer one
	quote    *domain.QuoteResult
	quoteSeq int

	scenariosModel  *scenes.ScenariosModel
	resultsModel    *scenes.ResultsModel
	parametersModel *scenes.ParametersModel
	compareModel    *scenes.CompareModel

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	// status is the last informational line (edits, reloads)
	status string

	err error

	loading        bool
	loadingMessage string
}

// NewModel creates the viewer for the customer file at configPath
func NewModel(configPath string, engine Engine) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = InfoStyle

	return Model{
		currentScene:    SceneScenarios,
		configPath:      configPath,
		engine:          engine,
		scenariosModel:  scenes.NewScenariosModel(),
		resultsModel:    scenes.NewResultsModel(),
		parametersModel: scenes.NewParametersModel(),
		compareModel:    scenes.NewCompareModel(transform.CreateBuiltInTemplates()),
		keys:            DefaultKeyMap(),
		help:            help.New(),
		spinner:         sp,
		width:           100,
		height:          30,
		loading:         true,
		loadingMessage:  "Loading configuration...",
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadConfigCmd(m.configPath), m.spinner.Tick)
}

// Working returns the configuration currently quoted
func (m Model) Working() *domain.CustomerConfiguration {
	return m.working
}

// Quote returns the latest quote
func (m Model) Quote() *domain.QuoteResult {
	return m.quote
}

// CurrentScene returns the scene on screen
func (m Model) CurrentScene() Scene {
	return m.currentScene
}

// Err returns the error on display
func (m Model) Err() error {
	return m.err
}

// Status returns the last status line
func (m Model) Status() string {
	return m.status
}

// loadConfigCmd returns a command that loads the configuration file
func loadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.NewInputParser().LoadCustomerConfig(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ConfigLoadedMsg{Config: cfg}
	}
}

// quoteCmd prices cfg off the update loop
func quoteCmd(engine Engine, seq int, cfg *domain.CustomerConfiguration) tea.Cmd {
	return func() tea.Msg {
		result, err := engine.Optimize(cfg)
		return QuoteCompleteMsg{Seq: seq, Result: result, Err: err}
	}
}

// compareCmd runs the what-if templates against cfg
func compareCmd(engine Engine, cfg *domain.CustomerConfiguration, templates []string) tea.Cmd {
	return func() tea.Msg {
		set, err := compare.NewCompareEngine(engine).Compare(cfg, compare.CompareOptions{Templates: templates})
		return ComparisonCompleteMsg{Set: set, Err: err}
	}
}

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneScenarios:
		return "Scenarios"
	case SceneResults:
		return "Breakdown"
	case SceneLines:
		return "Edit"
	case SceneCompare:
		return "What-if"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}
