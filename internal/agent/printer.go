package agent

import (
	"fmt"
	"io"
	"strings"
)

// ANSI SGR codes used by the transcript printer.
const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiCyan  = "\x1b[36m"
	ansiGreen = "\x1b[32m"
)

const panelWidth = 68

// printer renders a terminal-styled transcript of the agent's work into
// the output channel: boxed panels with colored titles, tool-call
// banners, and streamed response text. The capture-and-sanitize pipeline
// downstream strips this decoration before display.
type printer struct {
	w      io.Writer
	inBody bool
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

// panelOpen writes the top border of a panel with an inline title.
func (p *printer) panelOpen(title string) {
	rule := panelWidth - len(title) - 4
	if rule < 2 {
		rule = 2
	}
	fmt.Fprintf(p.w, "┏━ %s%s%s %s┓\n", ansiBold+ansiCyan, title, ansiReset, strings.Repeat("━", rule))
	p.inBody = true
}

// panelClose writes the bottom border of the current panel.
func (p *printer) panelClose() {
	if !p.inBody {
		return
	}
	fmt.Fprintf(p.w, "\n┗%s┛\n", strings.Repeat("━", panelWidth-2))
	p.inBody = false
}

// text writes a streamed response delta as-is.
func (p *printer) text(s string) {
	io.WriteString(p.w, s)
}

// toolCall writes a one-line banner for a tool invocation.
func (p *printer) toolCall(name, arguments string) {
	args := strings.TrimSpace(arguments)
	if args == "" {
		args = "{}"
	}
	fmt.Fprintf(p.w, "┃ %sRunning:%s %s(%s)\n", ansiGreen, ansiReset, name, args)
}
