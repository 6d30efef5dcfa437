package eval

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestErrorMessageSnapshots locks down the exact wording of representative
// errors from each category, the way fixture_test.go snapshots DWScript's
// fixture output.
func TestErrorMessageSnapshots(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"name_error", `print(undefinedThing)`},
		{"type_error", `print("x" + 1)`},
		{"value_error_division", `print(1 / 0)`},
		{"value_error_out_of_range", `let a = [1]; print(a[5])`},
		{"return_outside_function", `return 1`},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			_, err := runSource(t, c.src)
			if err == nil {
				t.Fatalf("expected an error for %q", c.src)
			}
			snaps.MatchSnapshot(t, err.Error())
		})
	}
}
