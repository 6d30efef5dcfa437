package eval

import "github.com/Victra-Studio/privvy/internal/runtime"

// signal is the non-local exit produced by evaluating a `return` statement.
// It is threaded up through statement execution — not as a general error —
// and must be caught exactly at the nearest enclosing call frame.
type signal struct {
	returning bool
	value     runtime.Value
}

var noSignal = signal{}
