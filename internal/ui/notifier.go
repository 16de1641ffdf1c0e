package ui

import (
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/temirov/branch-notifier/internal/utils"
)

const (
	informationPrefixConstant = "✔ "
	warningPrefixConstant     = "! "
	errorPrefixConstant       = "✖ "
)

// ConsoleNotifier prints one-line notifications in color.
type ConsoleNotifier struct {
	writer           io.Writer
	informationColor *color.Color
	warningColor     *color.Color
	errorColor       *color.Color
}

// NotifierOptions configures a ConsoleNotifier.
type NotifierOptions struct {
	// Writer receives notifications. Defaults to standard output.
	Writer io.Writer
	// DisableColor forces plain text regardless of terminal detection.
	DisableColor bool
}

// NewConsoleNotifier constructs a notifier. Color output follows fatih/color's terminal
// detection unless DisableColor is set.
func NewConsoleNotifier(options NotifierOptions) *ConsoleNotifier {
	writer := options.Writer
	if writer == nil {
		writer = os.Stdout
	}

	notifier := &ConsoleNotifier{
		writer:           utils.NewFlushingWriter(writer),
		informationColor: color.New(color.FgGreen),
		warningColor:     color.New(color.FgYellow, color.Bold),
		errorColor:       color.New(color.FgRed, color.Bold),
	}
	if options.DisableColor {
		for _, palette := range []*color.Color{notifier.informationColor, notifier.warningColor, notifier.errorColor} {
			palette.DisableColor()
		}
	}
	return notifier
}

// ShowInformation prints an information message.
func (notifier *ConsoleNotifier) ShowInformation(message string) {
	notifier.print(notifier.informationColor, informationPrefixConstant, message)
}

// ShowWarning prints a warning message.
func (notifier *ConsoleNotifier) ShowWarning(message string) {
	notifier.print(notifier.warningColor, warningPrefixConstant, message)
}

// ShowError prints an error message.
func (notifier *ConsoleNotifier) ShowError(message string) {
	notifier.print(notifier.errorColor, errorPrefixConstant, message)
}

func (notifier *ConsoleNotifier) print(palette *color.Color, prefix string, message string) {
	if notifier == nil {
		return
	}
	_, _ = palette.Fprintln(notifier.writer, prefix+message)
}
