package tui

import (
	"encoding/base64"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// copyText copies to the system clipboard, falling back to an OSC52 escape
// sequence for terminals without a clipboard tool (e.g. over SSH).
func copyText(text string, out io.Writer) error {
	if !clipboard.Unsupported {
		if err := clipboard.WriteAll(text); err == nil {
			return nil
		}
	}
	if !osc52Supported() {
		return errors.New("clipboard unavailable")
	}
	seq := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\x07"
	_, err := io.WriteString(out, seq)
	return err
}

func osc52Supported() bool {
	if term := os.Getenv("TERM"); term == "" || strings.EqualFold(term, "dumb") {
		return false
	}
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
