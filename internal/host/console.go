package host

import (
	"context"
	"fmt"
	"io"
	"sync"

	"replyhint/internal/models"
)

// ConsoleRenderer writes suggestions to a writer, one capsule per line in
// scroll mode and space-joined in wrap mode. Used by the console runner and
// handy in tests.
type ConsoleRenderer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleRenderer(out io.Writer) *ConsoleRenderer {
	return &ConsoleRenderer{out: out}
}

func (r *ConsoleRenderer) Render(suggestions []string, mode models.DisplayMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mode == models.DisplayModeWrap {
		line := ""
		for _, s := range suggestions {
			line += "[" + s + "] "
		}
		fmt.Fprintln(r.out, line)
		return
	}
	for _, s := range suggestions {
		fmt.Fprintf(r.out, "[%s]\n", s)
	}
}

func (r *ConsoleRenderer) Clear() {
	// Nothing rendered persistently on a console.
}

// ConsoleSender echoes the dispatched text. Stands in for the host's send
// collaborator in the console runner.
type ConsoleSender struct {
	out io.Writer
}

func NewConsoleSender(out io.Writer) *ConsoleSender {
	return &ConsoleSender{out: out}
}

func (s *ConsoleSender) SendText(_ context.Context, text string) error {
	_, err := fmt.Fprintf(s.out, "> %s\n", text)
	return err
}

// StaticHistory is an in-memory HistoryProvider over a fixed transcript.
type StaticHistory struct {
	Turns []models.ChatTurn
}

func (h *StaticHistory) LastMessageID(context.Context) (int, error) {
	if len(h.Turns) == 0 {
		return 0, nil
	}
	return len(h.Turns) - 1, nil
}

func (h *StaticHistory) MessagesInRange(_ context.Context, rng string) ([]models.ChatTurn, error) {
	var lo, hi int
	if _, err := fmt.Sscanf(rng, "%d-%d", &lo, &hi); err != nil {
		return nil, fmt.Errorf("bad range %q: %w", rng, err)
	}
	if lo < 0 || hi >= len(h.Turns) || lo > hi {
		return nil, fmt.Errorf("range %q out of bounds", rng)
	}
	return h.Turns[lo : hi+1], nil
}
