package tui

import (
	"fmt"
	"strings"
)

func (m *Model) View() string {
	var b strings.Builder
	ds := m.session.Dataset()

	b.WriteString(titleStyle.Render("Vizzu Builder"))
	if ds != nil {
		fmt.Fprintf(&b, "  %s %s", labelStyle.Render("dataset"), fmt.Sprintf("%s (%d rows)", m.session.Source(), ds.Rows))
	}
	b.WriteString("\n\n")

	filterLine := "none"
	if f := m.session.Filter(); f != "" {
		filterLine = fmt.Sprintf("%s  (%d rows)", f, m.session.MatchedRows())
	} else if !m.session.FiltersEnabled() {
		filterLine = "off"
	}
	tooltip := "off"
	if m.session.Tooltip() {
		tooltip = "on"
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("filter: "), filterLine)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("columns:"), formatRoles(m.session.Selection()))
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("tooltip:"), tooltip)

	if m.chartsErr != nil {
		b.WriteString(warnStyle.Render(m.chartsErr.Error()) + "\n")
	}
	for i, c := range m.charts {
		line := fmt.Sprintf("  %2d  %s", i+1, c.Title)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render(line) + "\n")
		} else {
			b.WriteString(rowStyle.Render(line) + "\n")
		}
	}

	if st := m.session.Story(); st != nil {
		fmt.Fprintf(&b, "\n%s %d slides\n", labelStyle.Render("story:"), st.Len())
	}

	if m.showCode {
		b.WriteString("\n" + panelStyle.Render(m.code.View()) + "\n")
		b.WriteString(labelStyle.Render("y copy • esc close") + "\n")
	}
	if m.prompt != nil && m.prompt.IsVisible() {
		b.WriteString("\n" + m.prompt.View() + "\n")
	}
	if m.notice != "" {
		b.WriteString("\n" + noticeText(m.notice, m.noticeKind) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return appStyle.Render(b.String())
}
