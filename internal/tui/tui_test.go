package tui

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/parser"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

const salesCSV = `Country,Region,Sales,Profit
Hungary,EU,100,10
Austria,EU,200,25
USA,US,300,40
`

func newModel(t *testing.T, opts vizzubuilder.Options) *Model {
	t.Helper()
	s, err := vizzubuilder.NewSession(opts, nil, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	ds, err := parser.LoadCSV(strings.NewReader(salesCSV), parser.Options{Name: "sales"})
	require.NoError(t, err)
	require.True(t, s.LoadDataset("sales.csv", ds))

	m, err := New(context.Background(), s, nil, Options{GlamourStyle: "notty", ClipboardOut: &bytes.Buffer{}})
	require.NoError(t, err)
	return m
}

func press(m *Model, keys string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	return cmd
}

// runCmd executes cmd and the commands of a batch, returning the messages that
// arrive within the timeout. Notice ticks outlive it and are dropped.
func runCmd(t *testing.T, cmd tea.Cmd, timeout time.Duration) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(timeout):
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(t, c, timeout)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestModelListsCharts(t *testing.T) {
	m := newModel(t, vizzubuilder.DefaultOptions())

	require.NoError(t, m.chartsErr)
	require.NotEmpty(t, m.charts)
	require.Equal(t, "Column", m.charts[0].Title)

	view := m.View()
	require.Contains(t, view, "Vizzu Builder")
	require.Contains(t, view, "cat1=Country; value1=Sales")
	require.Contains(t, view, "Column")
}

func TestModelCursorAndStory(t *testing.T) {
	m := newModel(t, vizzubuilder.DefaultOptions())

	press(m, "k")
	require.Equal(t, 0, m.cursor, "cursor stays at the top")
	press(m, "j")
	require.Equal(t, 1, m.cursor)

	press(m, "a")
	require.Equal(t, 1, m.session.Story().Len())
	require.Equal(t, noticeSuccess, m.noticeKind)
	require.Contains(t, m.notice, m.charts[1].Title)

	press(m, "d")
	require.Equal(t, 0, m.session.Story().Len())
	press(m, "d")
	require.Equal(t, "Story is empty", m.notice)
}

func TestModelNoticeExpires(t *testing.T) {
	m := newModel(t, vizzubuilder.DefaultOptions())

	m.startNotice("first", noticeInfo)
	stale := m.noticeSeq
	m.startNotice("second", noticeInfo)

	m.Update(clearNoticeMsg{id: stale})
	require.Equal(t, "second", m.notice, "stale timer must not clear a newer notice")
	m.Update(clearNoticeMsg{id: m.noticeSeq})
	require.Empty(t, m.notice)
}

func TestModelRolesPrompt(t *testing.T) {
	m := newModel(t, vizzubuilder.DefaultOptions())

	press(m, "r")
	require.True(t, m.prompt.IsVisible())
	require.Equal(t, "cat1=Country; value1=Sales", m.prompt.input.Value())

	m.Update(promptConfirmedMsg{kind: promptRoles, value: "cat1=Country; cat2=Region; value1=Sales"})
	require.False(t, m.prompt.IsVisible())
	require.Equal(t, models.Selection{Cat1: "Country", Cat2: "Region", Value1: "Sales"}, m.session.Selection())
	require.NoError(t, m.chartsErr)
	require.Equal(t, "Stacked column", m.charts[0].Title)

	m.Update(promptConfirmedMsg{kind: promptRoles, value: "cat1=Sales; value1=Country"})
	require.Equal(t, noticeError, m.noticeKind)

	m.Update(promptConfirmedMsg{kind: promptRoles, value: "colour=Region"})
	require.Equal(t, noticeError, m.noticeKind)
	require.Contains(t, m.notice, "unknown role")
}

func TestModelPromptEnterAndEscape(t *testing.T) {
	m := newModel(t, vizzubuilder.DefaultOptions())

	press(m, "e")
	require.True(t, m.prompt.IsVisible())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	msgs := runCmd(t, cmd, time.Second)
	require.Len(t, msgs, 1)
	require.IsType(t, promptCanceledMsg{}, msgs[0])
	m.Update(msgs[0])
	require.False(t, m.prompt.IsVisible())

	press(m, "f")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msgs = runCmd(t, cmd, time.Second)
	require.Len(t, msgs, 1)
	require.Equal(t, promptConfirmedMsg{kind: promptFilter, value: ""}, msgs[0])
}

func TestModelFilterPrompt(t *testing.T) {
	m := newModel(t, vizzubuilder.DefaultOptions())

	m.Update(promptConfirmedMsg{kind: promptFilter, value: "Region=EU; Country=Hungary, USA"})
	require.Contains(t, m.session.Filter(), "record['Region'] == 'EU'")
	require.Equal(t, 1, m.session.MatchedRows())
	require.Equal(t, "Region=EU; Country=Hungary,USA", m.criteriaText())
	require.Contains(t, m.View(), "(1 rows)")

	press(m, "F")
	require.False(t, m.session.FiltersEnabled())
	require.Empty(t, m.session.Filter())
	require.Equal(t, "Filters off", m.notice)

	m.Update(promptConfirmedMsg{kind: promptFilter, value: "Nope=1"})
	require.Equal(t, noticeError, m.noticeKind)

	m.Update(promptConfirmedMsg{kind: promptFilter, value: ""})
	require.True(t, m.session.FiltersEnabled())
	require.Empty(t, m.session.Filter())
}

func TestModelExport(t *testing.T) {
	m := newModel(t, vizzubuilder.DefaultOptions())
	press(m, "a")

	path := filepath.Join(t.TempDir(), "story.html")
	m.Update(promptConfirmedMsg{kind: promptExport, value: path})
	require.Equal(t, noticeSuccess, m.noticeKind, m.notice)

	doc, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(doc), "vizzu-player")

	m.Update(promptConfirmedMsg{kind: promptExport, value: filepath.Join(t.TempDir(), "missing", "story.html")})
	require.Equal(t, noticeError, m.noticeKind)
}

func TestModelCodePanel(t *testing.T) {
	m := newModel(t, vizzubuilder.DefaultOptions())

	press(m, "C")
	require.False(t, m.showCode)
	require.Equal(t, "Story is empty", m.notice)

	press(m, "c")
	require.True(t, m.showCode)
	require.Contains(t, m.codeText, "package main")
	require.Contains(t, m.codeText, `"rectangle"`)

	// Keys other than close scroll the panel instead of acting on the list
	press(m, "a")
	require.Equal(t, 0, m.session.Story().Len())

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.showCode)

	press(m, "a")
	press(m, "C")
	require.True(t, m.showCode)
	require.Contains(t, m.codeText, "s.AddSlide(")
}

func TestModelShare(t *testing.T) {
	uploads := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, header, err := r.FormFile("file")
		if err == nil {
			uploads <- header.Filename
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	opts := vizzubuilder.DefaultOptions()
	opts.Share.Endpoint = srv.URL
	m := newModel(t, opts)

	press(m, "S")
	require.Equal(t, "Story is empty", m.notice)

	press(m, "a")
	cmd := press(m, "S")
	require.Equal(t, "Sharing story...", m.notice)

	var done *shareDoneMsg
	for _, msg := range runCmd(t, cmd, 2*time.Second) {
		if d, ok := msg.(shareDoneMsg); ok {
			done = &d
		}
	}
	require.NotNil(t, done, "share did not finish")
	require.NoError(t, done.err)
	require.Equal(t, vizzubuilder.ExportFileName, <-uploads)

	m.Update(*done)
	require.Equal(t, "Story shared", m.notice)

	m.Update(shareDoneMsg{err: &vizzubuilder.ShareError{Endpoint: srv.URL, StatusCode: http.StatusNotFound}})
	require.Equal(t, noticeError, m.noticeKind)
}

func TestParseRoles(t *testing.T) {
	sel, err := parseRoles(" cat1 = Country ; Value1=Sales;label=Country; ")
	require.NoError(t, err)
	require.Equal(t, models.Selection{Cat1: "Country", Value1: "Sales", Label: "Country"}, sel)
	require.Equal(t, "cat1=Country; value1=Sales; label=Country", formatRoles(sel))

	_, err = parseRoles("cat1")
	require.Error(t, err)
}
