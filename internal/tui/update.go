package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/dealopt/internal/transform"
	"github.com/rgehrsitz/dealopt/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scenariosModel.SetSize(msg.Width, msg.Height)
		m.resultsModel.SetSize(msg.Width, msg.Height)
		m.parametersModel.SetSize(msg.Width, msg.Height)
		m.compareModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case NavigateMsg:
		m.navigate(msg.Scene)
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case ConfigLoadedMsg:
		m.base = msg.Config
		m.working = msg.Config
		m.edits = nil
		m.err = nil
		return m, m.requote("Quoting...")

	case QuoteCompleteMsg:
		if msg.Seq != m.quoteSeq {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.setQuote(msg)
		return m, nil

	case tuimsg.ScenarioSelectedMsg:
		if m.quote == nil {
			return m, nil
		}
		if s, ok := m.quote.Scenario(msg.Type); ok {
			m.resultsModel.SetResults(&s, m.quote.Best)
			m.navigate(SceneResults)
		}
		return m, nil

	case tuimsg.EditRequestedMsg:
		return m.applyEdit(msg.Transform)

	case tuimsg.CompareRequestedMsg:
		if m.working == nil {
			return m, nil
		}
		return m, compareCmd(m.engine, m.working, msg.Templates)

	case ComparisonCompleteMsg:
		if msg.Err != nil {
			m.compareModel.SetResults(nil)
			m.status = fmt.Sprintf("Comparison failed: %v", msg.Err)
			return m, nil
		}
		m.compareModel.SetResults(msg.Set)
		return m, nil

	case TablesReloadedMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("Table reload failed, keeping current tables: %v", msg.Err)
			return m, nil
		}
		m.status = fmt.Sprintf("Tables reloaded: %s", msg.Snapshot.Version())
		m.compareModel.ClearResults()
		if m.working == nil {
			return m, nil
		}
		return m, m.requote("Requoting with new tables...")
	}

	return m.updateCurrentScene(msg)
}

// requote starts pricing the working configuration
func (m *Model) requote(message string) tea.Cmd {
	m.quoteSeq++
	m.loading = true
	m.loadingMessage = message
	return quoteCmd(m.engine, m.quoteSeq, m.working)
}

func (m *Model) setQuote(msg QuoteCompleteMsg) {
	m.quote = msg.Result
	m.scenariosModel.SetQuote(msg.Result)
	m.parametersModel.SetConfig(m.working, m.engine.Policy().AssumeAutoPay)

	// keep the breakdown on the same strategy when it still exists
	if current := m.resultsModel.Scenario(); current != nil {
		if s, ok := msg.Result.Scenario(current.Type); ok {
			m.resultsModel.SetResults(&s, msg.Result.Best)
		} else {
			m.resultsModel.SetResults(nil, nil)
		}
	}
}

// applyEdit applies t on top of the working configuration and requotes. A
// rejected edit leaves the working configuration unchanged.
func (m Model) applyEdit(t transform.ConfigTransform) (tea.Model, tea.Cmd) {
	if m.working == nil || t == nil {
		return m, nil
	}
	next, err := transform.ApplyTransforms(m.working, []transform.ConfigTransform{t})
	if err != nil {
		m.status = fmt.Sprintf("Edit rejected: %v", err)
		return m, nil
	}
	m.working = next
	m.edits = append(append([]transform.ConfigTransform(nil), m.edits...), t)
	m.status = t.Description()
	m.compareModel.ClearResults()
	return m, m.requote("Requoting...")
}

// replayEdits rebuilds the working configuration from base and edits
func (m Model) replayEdits(edits []transform.ConfigTransform, status string) (tea.Model, tea.Cmd) {
	if m.base == nil {
		return m, nil
	}
	next, err := transform.ApplyTransforms(m.base, edits)
	if err != nil {
		m.status = fmt.Sprintf("Could not replay edits: %v", err)
		return m, nil
	}
	m.working = next
	m.edits = edits
	m.status = status
	m.compareModel.ClearResults()
	return m, m.requote("Requoting...")
}

func (m *Model) navigate(scene Scene) {
	if scene == m.currentScene {
		return
	}
	m.previousScene = m.currentScene
	m.currentScene = scene
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.navigate(SceneHelp)
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.err != nil && m.working != nil {
			m.err = nil
			return m, nil
		}
		if m.currentScene != SceneScenarios {
			back := m.previousScene
			if back == m.currentScene || back == SceneHelp {
				back = SceneScenarios
			}
			m.navigate(back)
		}
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.navigate((m.currentScene + 1) % SceneHelp)
		return m, nil

	case key.Matches(msg, m.keys.Scenarios):
		m.navigate(SceneScenarios)
		return m, nil
	case key.Matches(msg, m.keys.Results):
		m.navigate(SceneResults)
		return m, nil
	case key.Matches(msg, m.keys.Lines):
		m.navigate(SceneLines)
		return m, nil
	case key.Matches(msg, m.keys.Compare):
		m.navigate(SceneCompare)
		return m, nil

	case key.Matches(msg, m.keys.AutoPay):
		if m.working == nil {
			return m, nil
		}
		enabled := m.engine.Policy().AssumeAutoPay
		if m.working.AutoPay != nil {
			enabled = *m.working.AutoPay
		}
		return m.applyEdit(&transform.SetAutoPay{Enabled: !enabled})

	case key.Matches(msg, m.keys.Term):
		if m.working == nil {
			return m, nil
		}
		months := 36
		if m.working.FinancingTermMonths == 36 {
			months = 24
		}
		return m.applyEdit(&transform.SetFinancingTerm{Months: months})

	case key.Matches(msg, m.keys.Undo):
		if len(m.edits) == 0 {
			return m, nil
		}
		undone := m.edits[len(m.edits)-1]
		return m.replayEdits(m.edits[:len(m.edits)-1], "Undid: "+undone.Description())

	case key.Matches(msg, m.keys.Reset):
		if len(m.edits) == 0 {
			return m, nil
		}
		return m.replayEdits(nil, "All edits cleared")
	}

	return m.updateCurrentScene(msg)
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneScenarios:
		m.scenariosModel, cmd = m.scenariosModel.Update(msg)
	case SceneResults:
		m.resultsModel, cmd = m.resultsModel.Update(msg)
	case SceneLines:
		m.parametersModel, cmd = m.parametersModel.Update(msg)
	case SceneCompare:
		m.compareModel, cmd = m.compareModel.Update(msg)
	}
	return m, cmd
}
