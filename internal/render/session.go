package render

import (
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
)

// Session reports whether the current execution context is interactive.
// Batch renders resolve an unset prompt policy to "no prompting"; an
// interactive session resolves it to "ask".
type Session struct {
	// Force pins the answer regardless of environment when non-nil.
	Force *bool
}

// Interactive determines interactivity with the following precedence:
// explicit Force value > REPKIT_INTERACTIVE env var > whether stdin is a
// terminal.
func (s Session) Interactive() bool {
	if s.Force != nil {
		return *s.Force
	}

	if env := os.Getenv("REPKIT_INTERACTIVE"); env != "" {
		if v, err := strconv.ParseBool(env); err == nil {
			return v
		}
	}

	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}
