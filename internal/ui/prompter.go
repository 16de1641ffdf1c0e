package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"

	"github.com/temirov/branch-notifier/internal/utils"
)

const (
	actionListItemTemplateConstant  = "  %d) %s\n"
	actionSelectionTemplateConstant = "Select an action [1-%d]: "
	noActionsMessageConstant        = "no actions to choose from"
	selectPromptSizeLimitConstant   = 10
)

// ErrNoActions indicates SelectAction was called without actions.
var ErrNoActions = errors.New(noActionsMessageConstant)

// ActionPrompter presents a message with a closed set of actions and returns the chosen one.
// An empty selection means the prompt was dismissed without choosing.
type ActionPrompter interface {
	SelectAction(message string, actions []string) (string, error)
}

// PrompterOptions configures NewActionPrompter.
type PrompterOptions struct {
	Input  io.Reader
	Output io.Writer
	// DisableColor forces plain text in the line-based prompter.
	DisableColor bool
}

type fileDescriptor interface {
	Fd() uintptr
}

// NewActionPrompter returns an interactive select prompt when input is a terminal and a
// line-based numbered prompt otherwise.
func NewActionPrompter(options PrompterOptions) ActionPrompter {
	input := options.Input
	if input == nil {
		input = os.Stdin
	}
	output := options.Output
	if output == nil {
		output = os.Stdout
	}

	if descriptor, hasDescriptor := input.(fileDescriptor); hasDescriptor && isTerminal(descriptor.Fd()) {
		return NewSelectActionPrompter(input, output)
	}
	return NewLineActionPrompter(input, output, options.DisableColor)
}

func isTerminal(descriptor uintptr) bool {
	return isatty.IsTerminal(descriptor) || isatty.IsCygwinTerminal(descriptor)
}

// LineActionPrompter lists numbered actions and reads the choice from a line of input.
// Concurrent prompts are answered one at a time.
type LineActionPrompter struct {
	reader   *bufio.Reader
	writer   io.Writer
	notifier *ConsoleNotifier
	mutex    sync.Mutex
}

// NewLineActionPrompter constructs a prompter from the provided reader and writer.
func NewLineActionPrompter(input io.Reader, output io.Writer, disableColor bool) *LineActionPrompter {
	flushingOutput := utils.NewFlushingWriter(output)
	return &LineActionPrompter{
		reader:   bufio.NewReader(input),
		writer:   flushingOutput,
		notifier: NewConsoleNotifier(NotifierOptions{Writer: flushingOutput, DisableColor: disableColor}),
	}
}

// SelectAction writes the message and actions, then interprets the reply as an action number
// or an action label (case-insensitive). Blank, unknown or missing replies dismiss the prompt.
func (prompter *LineActionPrompter) SelectAction(message string, actions []string) (string, error) {
	if len(actions) == 0 {
		return "", ErrNoActions
	}

	prompter.mutex.Lock()
	defer prompter.mutex.Unlock()

	prompter.notifier.ShowWarning(message)
	for actionIndex, action := range actions {
		if _, writeError := fmt.Fprintf(prompter.writer, actionListItemTemplateConstant, actionIndex+1, action); writeError != nil {
			return "", writeError
		}
	}
	if _, writeError := fmt.Fprintf(prompter.writer, actionSelectionTemplateConstant, len(actions)); writeError != nil {
		return "", writeError
	}

	response, readError := prompter.reader.ReadString('\n')
	if readError != nil && !errors.Is(readError, io.EOF) {
		return "", readError
	}

	return matchAction(strings.TrimSpace(response), actions), nil
}

func matchAction(response string, actions []string) string {
	if len(response) == 0 {
		return ""
	}
	if actionNumber, parseError := strconv.Atoi(response); parseError == nil {
		if actionNumber >= 1 && actionNumber <= len(actions) {
			return actions[actionNumber-1]
		}
		return ""
	}
	for _, action := range actions {
		if strings.EqualFold(action, response) {
			return action
		}
	}
	return ""
}

// SelectActionPrompter shows actions as an arrow-key menu.
type SelectActionPrompter struct {
	input  io.ReadCloser
	output io.WriteCloser
	mutex  sync.Mutex
}

// NewSelectActionPrompter constructs a terminal menu prompter.
func NewSelectActionPrompter(input io.Reader, output io.Writer) *SelectActionPrompter {
	return &SelectActionPrompter{
		input:  io.NopCloser(input),
		output: nopWriteCloser{Writer: output},
	}
}

// SelectAction runs the menu. Interrupting the menu dismisses it.
func (prompter *SelectActionPrompter) SelectAction(message string, actions []string) (string, error) {
	if len(actions) == 0 {
		return "", ErrNoActions
	}

	prompter.mutex.Lock()
	defer prompter.mutex.Unlock()

	selectPrompt := promptui.Select{
		Label: message,
		Items: actions,
		Size:  min(len(actions), selectPromptSizeLimitConstant),
		Templates: &promptui.SelectTemplates{
			Label:    "{{ yellow \"!\" }} {{ . }}",
			Active:   "{{ cyan \"▸\" }} {{ cyan . }}",
			Inactive: "  {{ . }}",
			Selected: "{{ cyan \"✔\" }} {{ . }}",
		},
		Stdin:  prompter.input,
		Stdout: prompter.output,
	}

	actionIndex, _, runError := selectPrompt.Run()
	if runError != nil {
		return "", classifySelectError(runError)
	}
	return actions[actionIndex], nil
}

func classifySelectError(runError error) error {
	if errors.Is(runError, promptui.ErrInterrupt) || errors.Is(runError, promptui.ErrEOF) || errors.Is(runError, promptui.ErrAbort) {
		return nil
	}
	return runError
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
