package shell

import "sync/atomic"

// promptChar is U+276F, colored by the outcome of the last command.
const promptChar = "❯"

// PromptState records whether the most recently executed command succeeded.
// It is written once per command by the Runner and read by the prompt
// renderer.
type PromptState struct {
	ok atomic.Bool
}

// NewPromptState starts in the succeeded state, so a fresh shell shows a
// green prompt.
func NewPromptState() *PromptState {
	p := &PromptState{}
	p.ok.Store(true)
	return p
}

// Set records the outcome of a command.
func (p *PromptState) Set(ok bool) {
	p.ok.Store(ok)
}

// OK reports whether the last command succeeded.
func (p *PromptState) OK() bool {
	return p.ok.Load()
}

// Prompt renders the REPL prompt: the prompt character in green after a
// successful command, red after a failed one.
func (s *Shell) Prompt() string {
	color := Red
	if s.prompt.OK() {
		color = Green
	}
	return color.Render(promptChar) + " "
}
