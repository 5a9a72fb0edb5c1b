package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/iconfont/pkg/format"
	"github.com/matzehuels/iconfont/pkg/observability"
	"github.com/matzehuels/iconfont/pkg/taskgraph"
	"github.com/matzehuels/iconfont/pkg/webfont"
)

// =============================================================================
// Messages
// =============================================================================

type (
	taskStartMsg struct{ format format.ID }
	taskDoneMsg  struct {
		format  format.ID
		size    int
		elapsed time.Duration
		err     error
	}
	runDoneMsg struct{ err error }
	tickMsg    struct{}
)

// =============================================================================
// BoardModel - Live conversion task board
// =============================================================================

// boardRow is one format on the board.
type boardRow struct {
	format  format.ID
	state   taskgraph.State
	size    int
	elapsed time.Duration
	err     error
}

// BoardModel is the bubbletea model showing the conversion tasks of one run.
type BoardModel struct {
	Title    string
	Rows     []boardRow
	Done     bool
	Err      error
	frame    int
	cancel   context.CancelFunc
	rowIndex map[format.ID]int
}

// NewBoardModel creates a board with one pending row per format.
func NewBoardModel(title string, formats []format.ID, cancel context.CancelFunc) BoardModel {
	m := BoardModel{
		Title:    title,
		Rows:     make([]boardRow, len(formats)),
		cancel:   cancel,
		rowIndex: make(map[format.ID]int, len(formats)),
	}
	for i, f := range formats {
		m.Rows[i] = boardRow{format: f}
		m.rowIndex[f] = i
	}
	return m
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m BoardModel) Init() tea.Cmd {
	return tick()
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
	case taskStartMsg:
		if i, ok := m.rowIndex[msg.format]; ok {
			m.Rows[i].state = taskgraph.Running
		}
	case taskDoneMsg:
		if i, ok := m.rowIndex[msg.format]; ok {
			row := &m.Rows[i]
			row.size, row.elapsed, row.err = msg.size, msg.elapsed, msg.err
			row.state = taskgraph.Succeeded
			if msg.err != nil {
				row.state = taskgraph.Failed
			}
		}
	case runDoneMsg:
		m.Done, m.Err = true, msg.err
		return m, tea.Quit
	case tickMsg:
		if m.Done {
			return m, nil
		}
		m.frame++
		return m, tick()
	}
	return m, nil
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m BoardModel) stateCell(r boardRow) string {
	switch r.state {
	case taskgraph.Running:
		return styleIconSpinner.Render(spinnerFrames[m.frame%len(spinnerFrames)]) + " running"
	case taskgraph.Succeeded:
		return styleIconSuccess.Render(iconSuccess) + " done"
	case taskgraph.Failed:
		return styleIconError.Render(iconError) + " failed"
	}
	return StyleDim.Render("· pending")
}

func (m BoardModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Rows))
	for i, r := range m.Rows {
		size, elapsed := "", ""
		if r.state == taskgraph.Succeeded {
			size = formatBytes(r.size)
			elapsed = r.elapsed.Round(time.Millisecond).String()
		}
		rows[i] = []string{string(r.format), m.stateCell(r), size, elapsed}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Format", "State", "Size", "Time").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	for _, r := range m.Rows {
		if r.err != nil {
			b.WriteString(styleIconError.Render(iconError) + " " + string(r.format) + ": " + StyleDim.Render(r.err.Error()) + "\n")
			break
		}
	}
	if !m.Done {
		b.WriteString(StyleDim.Render("q cancel") + "\n")
	}
	return b.String()
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

// =============================================================================
// Hooks
// =============================================================================

// boardHooks forwards the task events of one run to the board.
type boardHooks struct {
	observability.NoopConversionHooks
	send func(tea.Msg)

	mu    sync.Mutex
	runID string
}

func (h *boardHooks) OnRunStart(_ context.Context, runID string, _ []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.runID == "" {
		h.runID = runID
	}
}

func (h *boardHooks) ours(runID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return runID == h.runID
}

func (h *boardHooks) OnTaskStart(_ context.Context, runID, f string) {
	if h.ours(runID) {
		h.send(taskStartMsg{format: format.ID(f)})
	}
}

func (h *boardHooks) OnTaskComplete(_ context.Context, runID, f string, size int, elapsed time.Duration, err error) {
	if h.ours(runID) {
		h.send(taskDoneMsg{format: format.ID(f), size: size, elapsed: elapsed, err: err})
	}
}

// runBoard generates the font while rendering the task board on stderr.
func runBoard(ctx context.Context, gen *webfont.Generator, opts *webfont.Options) (*webfont.Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	formats := gen.Registry().Closure(opts.Types)
	model := NewBoardModel("Generating "+opts.FontName, formats, cancel)
	p := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))

	observability.SetConversionHooks(&boardHooks{send: p.Send})
	defer observability.SetConversionHooks(observability.NoopConversionHooks{})

	var (
		result *webfont.Result
		err    error
	)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		result, err = gen.Generate(ctx, opts)
		p.Send(runDoneMsg{err: err})
	}()

	if _, runErr := p.Run(); runErr != nil && ctx.Err() == nil {
		// The board failed but the run goes on; report only its outcome.
		fmt.Fprintln(os.Stderr, StyleDim.Render("task board unavailable: "+runErr.Error()))
	}
	<-finished
	return result, err
}
