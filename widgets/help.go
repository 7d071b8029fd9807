package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []key.Binding
}

// RenderKeyHelp formats key bindings in a friendly way. Disabled
// bindings are left out.
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			if !k.Enabled() {
				continue
			}
			h := k.Help()
			lines = append(lines, fmt.Sprintf("  %-12s %s", h.Key, h.Desc))
		}
	}
	return strings.Join(lines, "\n")
}
