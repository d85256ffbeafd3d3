package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"productsum/internal/models"
)

type progressMsg struct {
	current int
	total   int
}

type noteMsg struct {
	level string
	text  string
}

type docDoneMsg struct {
	result *models.DocumentResult
	err    error
}

type dirDoneMsg struct {
	outcomes map[string]models.FileOutcome
	err      error
}

const (
	levelInfo  = "info"
	levelWarn  = "warn"
	levelError = "error"
)

// chanNotifier forwards pipeline notifications to the Bubble Tea
// model through a channel.
type chanNotifier struct {
	ch chan<- tea.Msg
}

func (n chanNotifier) Progress(_ context.Context, current int, total int) {
	n.ch <- progressMsg{current: current, total: total}
}

func (n chanNotifier) Info(_ context.Context, message string) {
	n.ch <- noteMsg{level: levelInfo, text: message}
}

func (n chanNotifier) Warn(_ context.Context, message string) {
	n.ch <- noteMsg{level: levelWarn, text: message}
}

func (n chanNotifier) Error(_ context.Context, message string) {
	n.ch <- noteMsg{level: levelError, text: message}
}
