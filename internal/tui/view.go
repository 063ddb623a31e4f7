package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading && m.quote == nil {
		return m.renderApp(m.renderLoading())
	}
	if m.err != nil {
		return m.renderApp(m.renderError())
	}

	var content string
	switch m.currentScene {
	case SceneScenarios:
		content = m.scenariosModel.View()
	case SceneResults:
		content = m.resultsModel.View()
	case SceneLines:
		content = m.parametersModel.View()
	case SceneCompare:
		content = m.compareModel.View()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}
	return m.renderApp(content)
}

// renderApp wraps content with title bar, status bar, and main container
func (m Model) renderApp(content string) string {
	titleBar := m.renderTitleBar()
	statusBar := m.renderStatusBar()

	contentHeight := m.height - lipgloss.Height(titleBar) - lipgloss.Height(statusBar)
	container := lipgloss.NewStyle().Height(max(contentHeight, 1)).Render(content)

	return AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, titleBar, container, statusBar))
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("DEALOPT - Wireless Deal Optimizer")

	crumbs := []string{m.currentScene.String()}
	if m.configPath != "" {
		crumbs = append(crumbs, m.configPath)
	}
	if m.quote != nil {
		crumbs = append(crumbs, "tables "+m.quote.TablesVersion)
	}
	if n := len(m.edits); n > 0 {
		crumbs = append(crumbs, fmt.Sprintf("%d edit(s)", n))
	}
	if m.loading {
		crumbs = append(crumbs, m.spinner.View()+" "+m.loadingMessage)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(strings.Join(crumbs, " / ")))
}

// renderStatusBar renders the status line and keyboard shortcuts
func (m Model) renderStatusBar() string {
	lines := []string{}
	if m.status != "" {
		lines = append(lines, InfoStyle.Render(m.status))
	}
	if m.quote != nil && len(m.quote.Warnings) > 0 {
		lines = append(lines, WarningStyle.Render(fmt.Sprintf("%d warning(s) on this quote; see the breakdown", len(m.quote.Warnings))))
	}
	lines = append(lines, m.help.ShortHelpView(m.keys.ShortHelp()))

	return StatusBarStyle.Width(max(m.width-2, 10)).Render(strings.Join(lines, "\n"))
}

func (m Model) renderLoading() string {
	message := m.loadingMessage
	if message == "" {
		message = "Loading..."
	}
	return BorderStyle.Render(fmt.Sprintf("%s %s", m.spinner.View(), message))
}

func (m Model) renderError() string {
	hint := "Press u to undo the last edit or esc to dismiss."
	if m.working == nil {
		hint = "Press q to quit."
	}
	return ErrorStyle.Render("Error: "+m.err.Error()) + "\n\n" + SubtitleStyle.Render(hint)
}

func (m Model) renderHelp() string {
	intro := `Every scenario is priced against the same reference tables and ranked by
total cost over the financing term. Edits apply to a working copy of the
customer file; the file itself is never changed.`

	return BorderStyle.Render(intro + "\n\n" + m.help.FullHelpView(m.keys.FullHelp()))
}
