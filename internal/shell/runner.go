package shell

import "fmt"

// CommandError is a recoverable, user-triggered failure: a bad argument, a
// name that does not resolve, an operation that is invalid in the current
// session state. It carries the exact line printed to the console.
type CommandError struct {
	msg string
}

// NewCommandError formats a command error.
func NewCommandError(format string, args ...any) *CommandError {
	return &CommandError{msg: fmt.Sprintf(format, args...)}
}

func (e *CommandError) Error() string { return e.msg }

// Runner wraps every command execution. It is the single place where command
// and client errors are caught: the failure line is printed in red, the
// prompt state is set, and the rollback (if any) restores the session state
// captured before the action ran. Exactly one of the success and failure
// paths executes per call; the rollback runs at most once. Errors never
// escape Run.
type Runner struct {
	console *Console
	prompt  *PromptState
}

// NewRunner creates a runner reporting to the given console and prompt
// state.
func NewRunner(console *Console, prompt *PromptState) *Runner {
	return &Runner{console: console, prompt: prompt}
}

// Run executes action. On a nil return the prompt is marked successful. On
// an error return - a CommandError from command logic or a classified client
// error, treated identically - the message is printed in red, the prompt is
// marked failed, and rollback is invoked when non-nil.
func (r *Runner) Run(action func() error, rollback func()) {
	err := action()
	if err == nil {
		r.prompt.Set(true)
		return
	}

	r.console.WriteColorLine(Red, "%s", err.Error())
	r.prompt.Set(false)
	if rollback != nil {
		rollback()
	}
}
