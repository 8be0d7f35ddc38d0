package render

import (
	"os"

	"github.com/mattn/go-isatty"
)

// Capabilities describes what the terminal we are attached to can do.
// It is detected once at startup and passed to whatever presents output.
type Capabilities struct {
	// Styled is true when colours and box drawing will be shown as intended.
	Styled bool
	// Interactive is true when a user can answer prompts.
	Interactive bool
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// DetectCapabilities inspects stdin and stdout, NO_COLOR turns styling off.
func DetectCapabilities() Capabilities {
	stdout := isTerminal(os.Stdout)
	_, noColor := os.LookupEnv("NO_COLOR")
	return Capabilities{
		Styled:      stdout && !noColor,
		Interactive: stdout && isTerminal(os.Stdin),
	}
}
