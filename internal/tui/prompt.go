package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type promptKind int

const (
	promptFilter promptKind = iota
	promptRoles
	promptExport
)

type (
	promptConfirmedMsg struct {
		kind  promptKind
		value string
	}
	promptCanceledMsg struct{}
)

// prompt is a one-line input dialog.
type prompt struct {
	kind    promptKind
	title   string
	help    string
	input   textinput.Model
	visible bool
}

func newPrompt(kind promptKind, title, label, value, help string) *prompt {
	ti := textinput.New()
	ti.Prompt = label
	ti.CharLimit = 512
	ti.Width = 60
	ti.SetValue(value)
	return &prompt{kind: kind, title: title, help: help, input: ti}
}

func (p *prompt) Show() tea.Cmd {
	p.visible = true
	return p.input.Focus()
}

func (p *prompt) Hide() {
	p.visible = false
	p.input.Blur()
}

func (p *prompt) IsVisible() bool { return p.visible }

func (p *prompt) Update(msg tea.Msg) tea.Cmd {
	if !p.visible {
		return nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEnter:
			kind, value := p.kind, p.input.Value()
			return func() tea.Msg { return promptConfirmedMsg{kind: kind, value: value} }
		case tea.KeyEsc:
			return func() tea.Msg { return promptCanceledMsg{} }
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *prompt) View() string {
	if !p.visible {
		return ""
	}
	help := lipgloss.NewStyle().Faint(true).Render(p.help + "\nenter to confirm • esc to cancel")
	return dialogStyle.Render(titleStyle.Render(p.title) + "\n\n" + p.input.View() + "\n\n" + help)
}
