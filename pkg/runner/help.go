package runner

import (
	"fmt"
	"strings"

	"github.com/aretw0/abacus/pkg/keymap"
)

// Help renders the key layout and REPL commands as markdown.
func Help(km *keymap.Keymap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Keys (%s)\n\n", km.Profile())
	b.WriteString("| Token | Button | Aliases | Keyboard |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, bind := range km.Bindings() {
		keys := make([]string, 0, len(bind.Keys))
		for _, k := range bind.Keys {
			keys = append(keys, "`"+k.String()+"`")
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n",
			cell(bind.Token), cell(bind.Label), cell(strings.Join(bind.Aliases, " ")), cell(strings.Join(keys, " ")))
	}
	b.WriteString(`
Numbers can be typed whole: ` + "`12.5`" + ` presses 1, 2, . and 5.

# Commands

- ` + "`:deg`" + ` / ` + "`:rad`" + ` switch the angle mode
- ` + "`:clear-memory`" + ` empties the memory slot
- ` + "`:clear-error`" + ` dismisses an error
- ` + "`help`" + ` shows this page, ` + "`quit`" + ` leaves
`)
	return b.String()
}

// cell escapes pipes, which would otherwise split a table column.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
