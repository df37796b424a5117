package debug

import (
	"encoding/json"
	"fmt"
	"os"
)

// Logf writes a diagnostic line to stderr. Arguments that implement
// fmt.Stringer (atom sequences, AST nodes) are rendered via String();
// maps and slices are pretty-printed as JSON; everything else falls
// back to %v via fmt.Fprintf.
func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch x := a.(type) {
		case fmt.Stringer:
			args[i] = x.String()
		case map[string]any, []any:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case bool, string, float64, int:
		default:
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
