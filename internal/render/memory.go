package render

import (
	"fmt"
	"io"
	"maps"
	"slices"
)

// FormatMemory lists memory contents in key order
func FormatMemory(w io.Writer, values map[string]any) {
	if len(values) == 0 {
		fmt.Fprintln(w, dimStyle.Render("(memory is empty)"))
		return
	}
	for _, key := range slices.Sorted(maps.Keys(values)) {
		fmt.Fprintf(w, "%s %v\n", commandStyle.Render(key+":"), values[key])
	}
}
