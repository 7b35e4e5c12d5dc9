package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/list"
	"github.com/santiagomed/rcgen/core"
	"github.com/santiagomed/rcgen/logger"
)

type stepMsg core.StepType

type warnMsg struct {
	step core.StepType
	err  error
}

type rawResponseMsg string

type pipelineDoneMsg struct {
	err error
}

var stepLabels = map[core.StepType]struct {
	present string
	past    string
}{
	core.BuildPrompt:   {"Building prompt.", "Built prompt."},
	core.GenerateCode:  {"Generating code.", "Generated code."},
	core.ExtractCode:   {"Extracting code.", "Extracted code."},
	core.ValidateCode:  {"Validating code.", "Validated code."},
	core.ApplyTemplate: {"Applying template.", "Applied template."},
	core.WriteFiles:    {"Writing files.", "Wrote files."},
	core.Done:          {"Done.", "Done."},
}

// generateModel shows the pipeline's progress while it runs on the engine.
type generateModel struct {
	spinner        spinner.Model
	steps          []core.StepType
	completedSteps []core.StepType
	start          func() chan error
	cancel         context.CancelFunc
	err            error
	finished       bool
	aborted        bool
	logger         logger.Logger
}

func newGenerateModel(steps []core.StepType, start func() chan error, cancel context.CancelFunc, l logger.Logger) generateModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return generateModel{
		spinner: s,
		steps:   steps,
		start:   start,
		cancel:  cancel,
		logger:  l,
	}
}

func (m generateModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

// run submits the pipeline and blocks until it finished.
func (m generateModel) run() tea.Msg {
	return pipelineDoneMsg{err: <-m.start()}
}

func (m generateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case stepMsg:
		m.logger.Debug(fmt.Sprintf("Received step: %v", core.StepType(msg)))
		m.completedSteps = append(m.completedSteps, core.StepType(msg))
		return m, nil
	case warnMsg:
		return m, tea.Printf("%s", warnStyle.Render(fmt.Sprintf("Warning: %v. Using a template instead.", msg.err)))
	case rawResponseMsg:
		return m, tea.Printf("%s\n%s", faintStyle.Render("Raw model response:"), string(msg))
	case pipelineDoneMsg:
		m.err = msg.err
		m.finished = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m generateModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
		m.logger.Debug("User interrupted generation")
		m.aborted = true
		m.cancel()
		return m, tea.Sequence(tea.Printf("%s", faintStyle.Render("Interrupted. Exiting...")), tea.Quit)
	}
	return m, nil
}

func (m generateModel) View() string {
	if m.finished || m.aborted {
		return ""
	}

	enumerator := func(l list.Items, i int) string {
		if i < len(m.completedSteps) {
			return checkStyle.Render("✓")
		}
		return m.spinner.View()
	}

	l := list.New().Enumerator(enumerator)
	for i, step := range m.steps {
		label := stepLabels[step]
		if i < len(m.completedSteps) {
			l.Item(label.past)
		} else if i == len(m.completedSteps) {
			l.Item(label.present)
		}
	}
	return fmt.Sprint(l) + "\n"
}

// teaPublisher forwards pipeline events to the running program.
type teaPublisher struct {
	program *tea.Program
	logger  logger.Logger
}

func (p *teaPublisher) PublishStep(step core.StepType) {
	p.program.Send(stepMsg(step))
}

func (p *teaPublisher) Error(step core.StepType, err error) {
	p.logger.Debug(fmt.Sprintf("Step %v failed: %v", step, err))
}

func (p *teaPublisher) Warn(step core.StepType, err error) {
	p.program.Send(warnMsg{step: step, err: err})
}

func (p *teaPublisher) RawResponse(text string) {
	p.program.Send(rawResponseMsg(text))
}
