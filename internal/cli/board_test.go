package cli

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/iconfont/pkg/format"
	"github.com/matzehuels/iconfont/pkg/taskgraph"
)

func update(t *testing.T, m BoardModel, msg tea.Msg) (BoardModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(BoardModel), cmd
}

func TestBoardModel(t *testing.T) {
	m := NewBoardModel("Generating icons", []format.ID{format.SVG, format.TTF, format.WOFF2}, nil)

	for _, r := range m.Rows {
		if r.state != taskgraph.Pending {
			t.Fatalf("row %s starts %s, want pending", r.format, r.state)
		}
	}

	m, _ = update(t, m, taskStartMsg{format: format.SVG})
	if m.Rows[0].state != taskgraph.Running {
		t.Errorf("svg = %s, want running", m.Rows[0].state)
	}

	m, _ = update(t, m, taskDoneMsg{format: format.SVG, size: 2048, elapsed: 12 * time.Millisecond})
	if m.Rows[0].state != taskgraph.Succeeded || m.Rows[0].size != 2048 {
		t.Errorf("svg row = %+v", m.Rows[0])
	}

	boom := errors.New("boom")
	m, _ = update(t, m, taskDoneMsg{format: format.TTF, err: boom})
	if m.Rows[1].state != taskgraph.Failed {
		t.Errorf("ttf = %s, want failed", m.Rows[1].state)
	}

	// Unknown formats are ignored.
	m, _ = update(t, m, taskStartMsg{format: format.EOT})

	view := m.View()
	for _, want := range []string{"Generating icons", "svg", "2.0 KB", "failed", "boom", "pending"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m, cmd := update(t, m, runDoneMsg{err: boom})
	if !m.Done || m.Err != boom {
		t.Errorf("Done = %v, Err = %v", m.Done, m.Err)
	}
	if cmd == nil {
		t.Error("runDoneMsg should quit the program")
	}
	if _, cmd := update(t, m, tickMsg{}); cmd != nil {
		t.Error("a finished board should stop ticking")
	}
}

func TestBoardModel_CancelKey(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	m := NewBoardModel("x", []format.ID{format.SVG}, cancel)

	update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if ctx.Err() == nil {
		t.Error("ctrl+c should cancel the run")
	}
}

func TestBoardHooks(t *testing.T) {
	var (
		mu   sync.Mutex
		msgs []tea.Msg
	)
	h := &boardHooks{send: func(msg tea.Msg) {
		mu.Lock()
		defer mu.Unlock()
		msgs = append(msgs, msg)
	}}

	ctx := t.Context()
	h.OnRunStart(ctx, "run-1", []string{"svg"})
	h.OnRunStart(ctx, "run-2", []string{"svg"})
	h.OnTaskStart(ctx, "run-1", "svg")
	h.OnTaskStart(ctx, "run-2", "svg")
	h.OnTaskComplete(ctx, "run-1", "svg", 10, time.Millisecond, nil)

	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2 from the first run", len(msgs))
	}
	if msg, ok := msgs[1].(taskDoneMsg); !ok || msg.size != 10 || msg.format != format.SVG {
		t.Errorf("second message = %#v", msgs[1])
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[int]string{
		0:       "0 B",
		512:     "512 B",
		2048:    "2.0 KB",
		3 << 20: "3.0 MB",
	}
	for n, want := range tests {
		if got := formatBytes(n); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", n, got, want)
		}
	}
}
