package artifact

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// TerminalPrompter returns a Prompter that asks the operator on out and
// reads the answer from in. The three choices mirror the conflict
// procedure: overwrite, back up the existing file, or skip.
func TerminalPrompter(in io.Reader, out io.Writer) Prompter {
	reader := bufio.NewReader(in)
	warn := color.New(color.FgYellow)

	return func(path string) (Choice, error) {
		_, _ = warn.Fprintf(out, "%s already exists.\n", path)

		for {
			_, _ = fmt.Fprint(out, "[o]verwrite, [b]ackup existing, [s]kip? ")

			line, err := reader.ReadString('\n')
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "o", "overwrite":
				return ChoiceOverwrite, nil
			case "b", "backup":
				return ChoiceBackup, nil
			case "s", "skip":
				return ChoiceSkip, nil
			}

			if err != nil {
				return ChoiceSkip, fmt.Errorf("failed to read choice: %w", err)
			}
			_, _ = warn.Fprintln(out, "Please answer o, b, or s.")
		}
	}
}
