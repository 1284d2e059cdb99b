package tui

import (
	"fmt"
	"strings"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
)

// parseRoles reads "cat1=Country; cat2=Region; value1=Sales; label=Sales".
// Omitted roles are unselected.
func parseRoles(text string) (models.Selection, error) {
	var sel models.Selection
	for _, part := range strings.Split(text, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			return sel, fmt.Errorf("expected role=column, got %q", part)
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "cat1":
			sel.Cat1 = value
		case "cat2":
			sel.Cat2 = value
		case "value1":
			sel.Value1 = value
		case "value2":
			sel.Value2 = value
		case "label":
			sel.Label = value
		default:
			return sel, fmt.Errorf("unknown role %q", name)
		}
	}
	return sel, nil
}

func formatRoles(sel models.Selection) string {
	parts := []string{"cat1=" + sel.Cat1, "value1=" + sel.Value1}
	if sel.Cat2 != "" {
		parts = append(parts, "cat2="+sel.Cat2)
	}
	if sel.Value2 != "" {
		parts = append(parts, "value2="+sel.Value2)
	}
	if sel.Label != "" {
		parts = append(parts, "label="+sel.Label)
	}
	return strings.Join(parts, "; ")
}
