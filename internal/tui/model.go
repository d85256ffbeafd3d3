package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"productsum/internal/models"
	"productsum/internal/notify"
)

const (
	notifyBufferSize = 64
	maxVisibleNotes  = 8
	minProgressWidth = 20
)

// Pipeline is the TUI-facing subset of the source resolver.
type Pipeline interface {
	ProcessDocument(ctx context.Context, content []byte) (*models.DocumentResult, error)
	ProcessDirectory(ctx context.Context, dir string) (map[string]models.FileOutcome, error)
}

// Config selects the run mode: Dir when set, otherwise Content is
// processed as one uploaded document.
type Config struct {
	Content []byte
	Dir     string
}

// Run builds the pipeline around a TUI-backed notifier and drives the
// whole run interactively. The pipeline executes in a single
// background goroutine; records are still enriched sequentially.
func Run(ctx context.Context, cfg Config, build func(notify.Notifier) Pipeline) error {
	ch := make(chan tea.Msg, notifyBufferSize)
	pipeline := build(chanNotifier{ch: ch})

	m := newModel(ctx, cfg, pipeline, ch)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("failed to run program: %w", err)
	}

	return nil
}

type note struct {
	level string
	text  string
}

type model struct {
	ctx      context.Context
	cfg      Config
	pipeline Pipeline
	ch       chan tea.Msg

	prog     progress.Model
	current  int
	total    int
	notes    []note
	result   *models.DocumentResult
	outcomes map[string]models.FileOutcome
	runErr   error
	done     bool
	savedTo  string
}

func newModel(ctx context.Context, cfg Config, pipeline Pipeline, ch chan tea.Msg) model {
	return model{
		ctx:      ctx,
		cfg:      cfg,
		pipeline: pipeline,
		ch:       ch,
		prog:     progress.New(progress.WithDefaultGradient()),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.start(), m.wait())
}

func (m model) start() tea.Cmd {
	return func() tea.Msg {
		if m.cfg.Dir != "" {
			outcomes, err := m.pipeline.ProcessDirectory(m.ctx, m.cfg.Dir)

			return dirDoneMsg{outcomes: outcomes, err: err}
		}

		result, err := m.pipeline.ProcessDocument(m.ctx, m.cfg.Content)

		return docDoneMsg{result: result, err: err}
	}
}

func (m model) wait() tea.Cmd {
	return func() tea.Msg {
		return <-m.ch
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.prog.Width = max(minProgressWidth, msg.Width-4)

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "s":
			if m.done && m.result != nil && m.savedTo == "" {
				m.savedTo = m.saveDownload()
			}

			return m, nil
		}

	case progressMsg:
		m.current = msg.current
		m.total = msg.total

		var percent float64
		if msg.total > 0 {
			percent = float64(msg.current) / float64(msg.total)
		}

		return m, tea.Batch(m.prog.SetPercent(percent), m.wait())

	case noteMsg:
		m.notes = append(m.notes, note{level: msg.level, text: msg.text})

		return m, m.wait()

	case progress.FrameMsg:
		progModel, cmd := m.prog.Update(msg)
		if p, ok := progModel.(progress.Model); ok {
			m.prog = p
		}

		return m, cmd

	case docDoneMsg:
		m.done = true
		m.result = msg.result
		m.runErr = msg.err

		return m, nil

	case dirDoneMsg:
		m.done = true
		m.outcomes = msg.outcomes
		m.runErr = msg.err

		return m, nil
	}

	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Product Summary Generator"))
	b.WriteString("\n\n")

	if m.total > 0 && !m.done {
		b.WriteString(fmt.Sprintf("Processing record %d of %d\n", m.current, m.total))
		b.WriteString(m.prog.View())
		b.WriteString("\n\n")
	}

	for _, n := range m.visibleNotes() {
		b.WriteString(styleForLevel(n.level).Render(n.text))
		b.WriteString("\n")
	}

	if m.done {
		b.WriteString("\n")
		m.renderOutcome(&b)
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.footer()))
	b.WriteString("\n")

	return b.String()
}

func (m model) visibleNotes() []note {
	if len(m.notes) <= maxVisibleNotes {
		return m.notes
	}

	return m.notes[len(m.notes)-maxVisibleNotes:]
}

func (m model) footer() string {
	switch {
	case !m.done:
		return "q: quit"
	case m.result != nil && m.savedTo == "":
		return fmt.Sprintf("s: save %s • q: quit", m.result.Download.Name)
	default:
		return "q: quit"
	}
}

func (m model) renderOutcome(b *strings.Builder) {
	if m.runErr != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Run failed: %v", m.runErr)))
		b.WriteString("\n")

		return
	}

	if m.outcomes != nil {
		m.renderDirectoryReport(b)

		return
	}

	if m.result != nil {
		m.renderPreview(b)
	}
}

func (m model) renderDirectoryReport(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Processing Results"))
	b.WriteString("\n")

	for _, name := range slices.Sorted(maps.Keys(m.outcomes)) {
		outcome := m.outcomes[name]
		if outcome.Success() {
			line := fmt.Sprintf("✅ %s: Processed %d products → %s",
				name, outcome.RecordCount, outcome.OutputPath)
			b.WriteString(successStyle.Render(line))
		} else {
			b.WriteString(errorStyle.Render(fmt.Sprintf("❌ %s: %v", name, outcome.Err)))
		}
		b.WriteString("\n")
	}
}

func (m model) renderPreview(b *strings.Builder) {
	b.WriteString(successStyle.Render("Products processed successfully!"))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Sample Results"))
	b.WriteString("\n")

	for i, record := range m.result.Preview.Records {
		b.WriteString(fmt.Sprintf("Product %d:\n", i+1))

		pretty, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			b.WriteString(fmt.Sprintf("%v\n", record))
		} else {
			b.WriteString(string(pretty))
			b.WriteString("\n")
		}
	}

	if m.result.Preview.Remaining > 0 {
		b.WriteString(infoStyle.Render(fmt.Sprintf(
			"%d more products processed. Download the JSON file to see all results.",
			m.result.Preview.Remaining)))
		b.WriteString("\n")
	}

	if m.savedTo != "" {
		b.WriteString(successStyle.Render("Saved to " + m.savedTo))
		b.WriteString("\n")
	}
}

func (m model) saveDownload() string {
	name := m.result.Download.Name
	if err := os.WriteFile(name, m.result.Download.Data, 0o644); err != nil {
		return ""
	}

	return name
}

func styleForLevel(level string) lipgloss.Style {
	switch level {
	case levelWarn:
		return warnStyle
	case levelError:
		return errorStyle
	default:
		return infoStyle
	}
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
