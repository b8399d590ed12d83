package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/rlch/autocanon/canonical"
)

// progressScorer shows a spinner on a terminal while the wrapped scorer runs.
type progressScorer struct {
	inner canonical.Scorer
	w     *os.File
}

// withProgress wraps s with a spinner when w is a terminal.
func withProgress(s canonical.Scorer, w io.Writer) canonical.Scorer {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return s
	}

	return &progressScorer{inner: s, w: f}
}

// Score implements canonical.Scorer.
func (p *progressScorer) Score(ctx context.Context, corpus *canonical.Corpus) (*canonical.Result, error) {
	model := newSpinnerModel(fmt.Sprintf("scoring %d examples", corpus.Size()))

	program := tea.NewProgram(model,
		tea.WithOutput(p.w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = program.Run()
	}()

	result, err := p.inner.Score(ctx, corpus)

	program.Send(stopMsg{})
	<-done

	return result, err
}

type stopMsg struct{}

// spinnerModel is the bubbletea model for the scoring spinner.
type spinnerModel struct {
	spinner spinner.Model
	label   string
	start   time.Time
	done    bool
}

func newSpinnerModel(label string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	return &spinnerModel{spinner: s, label: label, start: time.Now()}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stopMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		return ""
	}

	elapsed := time.Since(m.start).Truncate(time.Second)

	return fmt.Sprintf("%s %s (%s)\n", m.spinner.View(), m.label, elapsed)
}
