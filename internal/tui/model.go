// Package tui is the terminal frontend of the builder.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/chart"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/filter"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

// Options configure the terminal UI.
type Options struct {
	// GlamourStyle is a glamour style name or path; empty picks one from the
	// terminal background.
	GlamourStyle string
	// ClipboardOut receives OSC52 sequences; nil means stdout.
	ClipboardOut io.Writer
}

type shareDoneMsg struct{ err error }

// Model is the bubbletea model driving one session.
type Model struct {
	ctx     context.Context
	session *vizzubuilder.Session
	logger  *zap.Logger

	keys     Keymap
	help     help.Model
	showHelp bool

	charts    []chart.Chart
	chartsErr error
	cursor    int

	prompt *prompt

	code     viewport.Model
	codeText string
	showCode bool
	renderer *glamour.TermRenderer

	clipboardOut io.Writer
	width        int
	height       int

	notice     string
	noticeKind noticeKind
	noticeSeq  int
}

// New creates the model. The session must have a dataset loaded.
func New(ctx context.Context, session *vizzubuilder.Session, logger *zap.Logger, opts Options) (*Model, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	style := glamour.WithAutoStyle()
	if opts.GlamourStyle != "" {
		style = glamour.WithStylePath(opts.GlamourStyle)
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100))
	if err != nil {
		// Fallback to a fixed style when auto detection fails
		renderer, err = glamour.NewTermRenderer(glamour.WithStylePath("light"), glamour.WithWordWrap(100))
		if err != nil {
			return nil, fmt.Errorf("failed to create code renderer: %w", err)
		}
	}
	out := opts.ClipboardOut
	if out == nil {
		out = os.Stdout
	}

	m := &Model{
		ctx:          ctx,
		session:      session,
		logger:       logger,
		keys:         Keys,
		help:         help.New(),
		code:         viewport.New(80, 20),
		renderer:     renderer,
		clipboardOut: out,
		width:        100,
		height:       40,
	}
	m.refresh()
	return m, nil
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctx context.Context, session *vizzubuilder.Session, logger *zap.Logger, opts Options) error {
	m, err := New(ctx, session, logger, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m *Model) refresh() {
	m.charts, m.chartsErr = m.session.Charts()
	if m.cursor >= len(m.charts) {
		m.cursor = len(m.charts) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.code.Width = msg.Width - 6
		m.code.Height = msg.Height / 2
		return m, nil

	case clearNoticeMsg:
		if msg.id == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case promptCanceledMsg:
		m.closePrompt()
		return m, nil

	case promptConfirmedMsg:
		m.closePrompt()
		return m, m.handlePrompt(msg)

	case shareDoneMsg:
		if msg.err != nil {
			m.logger.Warn("Share failed", zap.Error(msg.err))
			return m, m.startNotice(msg.err.Error(), noticeError)
		}
		return m, m.startNotice("Story shared", noticeSuccess)

	case tea.KeyMsg:
		if m.prompt != nil && m.prompt.IsVisible() {
			return m, m.prompt.Update(msg)
		}
		if m.showCode {
			return m, m.updateCode(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.charts)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Roles):
		return m.openPrompt(promptRoles, "Select columns", "Roles: ", formatRoles(m.session.Selection()),
			"cat1 and value1 are mandatory; separate roles with ;")
	case key.Matches(msg, m.keys.Filter):
		return m.openPrompt(promptFilter, "Filter", "Criteria: ", m.criteriaText(),
			"Region=EU,US; Profit=20..80; Date=2020-01-01..2020-12-31; Name~abc")
	case key.Matches(msg, m.keys.Export):
		return m.openPrompt(promptExport, "Export story", "Export as: ", vizzubuilder.ExportFileName, "")
	case key.Matches(msg, m.keys.ToggleFilters):
		on := !m.session.FiltersEnabled()
		m.session.SetFiltersEnabled(on)
		state := "off"
		if on {
			state = "on"
		}
		return m.startNotice("Filters "+state, noticeInfo)
	case key.Matches(msg, m.keys.Tooltip):
		m.session.SetTooltip(!m.session.Tooltip())
	case key.Matches(msg, m.keys.AddToStory):
		if err := m.session.AddChartToStory(m.cursor); err != nil {
			return m.startNotice(err.Error(), noticeError)
		}
		return m.startNotice(fmt.Sprintf("Added %s (%d slides)", m.charts[m.cursor].Title, m.session.Story().Len()), noticeSuccess)
	case key.Matches(msg, m.keys.DeleteSlide):
		if !m.session.DeleteLastSlide() {
			return m.startNotice("Story is empty", noticeInfo)
		}
		return m.startNotice("Deleted last slide", noticeInfo)
	case key.Matches(msg, m.keys.Share):
		return m.share()
	case key.Matches(msg, m.keys.ChartCode):
		code, err := m.session.ChartCode(m.cursor)
		return m.openCode(code, err)
	case key.Matches(msg, m.keys.StoryCode):
		code, err := m.session.StoryCode()
		if code == "" && err == nil {
			return m.startNotice("Story is empty", noticeInfo)
		}
		return m.openCode(code, err)
	}
	return nil
}

func (m *Model) openPrompt(kind promptKind, title, label, value, hint string) tea.Cmd {
	m.prompt = newPrompt(kind, title, label, value, hint)
	return m.prompt.Show()
}

func (m *Model) closePrompt() {
	if m.prompt != nil {
		m.prompt.Hide()
	}
}

func (m *Model) criteriaText() string {
	cols := m.session.FilterColumns()
	var parts []string
	for _, in := range m.session.Inputs() {
		if c, ok := filter.Lookup(cols, in.Column); ok {
			parts = append(parts, filter.FormatInput(c, in))
		}
	}
	return strings.Join(parts, "; ")
}

func (m *Model) handlePrompt(msg promptConfirmedMsg) tea.Cmd {
	switch msg.kind {
	case promptFilter:
		var inputs []filter.Input
		for _, part := range strings.Split(msg.value, ";") {
			if part = strings.TrimSpace(part); part == "" {
				continue
			}
			in, err := filter.ParseInput(m.session.FilterColumns(), part)
			if err != nil {
				return m.startNotice(err.Error(), noticeError)
			}
			inputs = append(inputs, in)
		}
		if err := m.session.ApplyFilters(inputs); err != nil {
			return m.startNotice(err.Error(), noticeError)
		}
		m.session.SetFiltersEnabled(true)
		return m.startNotice(fmt.Sprintf("%d rows match", m.session.MatchedRows()), noticeInfo)

	case promptRoles:
		sel, err := parseRoles(msg.value)
		if err == nil {
			err = m.session.Select(sel)
		}
		if err != nil {
			return m.startNotice(err.Error(), noticeError)
		}
		m.refresh()
		if m.chartsErr != nil {
			return m.startNotice(m.chartsErr.Error(), noticeError)
		}
		return nil

	case promptExport:
		doc, err := m.session.ExportStory()
		if err == nil {
			err = os.WriteFile(msg.value, doc, 0644)
		}
		if err != nil {
			return m.startNotice("Export failed: "+err.Error(), noticeError)
		}
		m.logger.Info("Story exported", zap.String("path", msg.value))
		return m.startNotice("Exported to "+msg.value, noticeSuccess)
	}
	return nil
}

func (m *Model) share() tea.Cmd {
	if st := m.session.Story(); st == nil || st.Len() == 0 {
		return m.startNotice("Story is empty", noticeInfo)
	}
	doc, err := m.session.ExportStory()
	if err != nil {
		return m.startNotice(err.Error(), noticeError)
	}
	up, ctx := m.session.Uploader(), m.ctx
	notice := m.startNotice("Sharing story...", noticeInfo)
	return tea.Batch(notice, func() tea.Msg {
		return shareDoneMsg{err: up.Upload(ctx, vizzubuilder.ExportFileName, doc)}
	})
}

func (m *Model) openCode(code string, err error) tea.Cmd {
	if code == "" && err != nil {
		return m.startNotice(err.Error(), noticeError)
	}
	m.codeText = code
	rendered, rerr := m.renderer.Render("```go\n" + code + "\n```\n")
	if rerr != nil {
		rendered = code
	}
	m.code.SetContent(rendered)
	m.code.GotoTop()
	m.showCode = true
	if err != nil {
		return m.startNotice(err.Error(), noticeError)
	}
	return nil
}

func (m *Model) updateCode(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyEsc, key.Matches(msg, m.keys.ChartCode), key.Matches(msg, m.keys.StoryCode):
		m.showCode = false
		return nil
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Copy):
		if err := copyText(m.codeText, m.clipboardOut); err != nil {
			return m.startNotice("Copy failed: "+err.Error(), noticeError)
		}
		return m.startNotice("Code copied", noticeSuccess)
	}
	var cmd tea.Cmd
	m.code, cmd = m.code.Update(msg)
	return cmd
}
