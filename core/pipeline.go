package core

import (
	"context"
	"fmt"
	"time"

	"github.com/santiagomed/rcgen/component"
	"github.com/santiagomed/rcgen/fs"
	"github.com/santiagomed/rcgen/logger"
	"github.com/santiagomed/rcgen/metrics"
)

type Step interface {
	Execute(ctx context.Context, state *State) error
}

type StepType int

const (
	BuildPrompt StepType = iota
	GenerateCode
	ExtractCode
	ValidateCode
	ApplyTemplate
	WriteFiles
	Done
)

func (s StepType) String() string {
	switch s {
	case BuildPrompt:
		return "BuildPrompt"
	case GenerateCode:
		return "GenerateCode"
	case ExtractCode:
		return "ExtractCode"
	case ValidateCode:
		return "ValidateCode"
	case ApplyTemplate:
		return "ApplyTemplate"
	case WriteFiles:
		return "WriteFiles"
	case Done:
		return "Done"
	default:
		return fmt.Sprintf("StepType(%d)", int(s))
	}
}

type State struct {
	Request       *Request
	Prompt        string
	Raw           string
	Extracted     string
	// GenerationErr is the absorbed remote failure, if any.
	GenerationErr error
	// ValidationErr is why the extracted code was rejected, if it was.
	ValidationErr error
	Artifact      *component.Artifact
	Written       fs.Written
	Publisher     StepPublisher
	Logger        logger.Logger
}

// Result is what a successful run produced.
type Result struct {
	Artifact component.Artifact
	Written  fs.Written
}

type Pipeline struct {
	stepManager StepManager
	state       *State
	publisher   StepPublisher
	metrics     *metrics.Recorder
}

func NewPipeline(r *Request, sm StepManager, pub StepPublisher, m *metrics.Recorder, logger logger.Logger) *Pipeline {
	if pub == nil {
		pub = &DefaultStepPublisher{}
	}
	if m == nil {
		m = metrics.NewRecorder()
	}
	return &Pipeline{
		state: &State{
			Request:   r,
			Publisher: pub,
			Logger:    logger,
		},
		publisher:   pub,
		stepManager: sm,
		metrics:     m,
	}
}

func (p *Pipeline) Execute(ctx context.Context) error {
	steps := p.stepManager.GetSteps()
	p.state.Logger.Info("Starting pipeline execution")
	for i, stepType := range steps {
		select {
		case <-ctx.Done():
			p.state.Logger.Info("Pipeline execution cancelled")
			return ctx.Err()
		default:
			p.state.Logger.Debug(fmt.Sprintf("Attempting to execute step %d: %v", i, stepType))
			step := p.stepManager.GetStep(stepType)
			if step == nil {
				p.state.Logger.Error(fmt.Sprintf("Step %v not found", stepType))
				p.publisher.Error(stepType, fmt.Errorf("step %v not found", stepType))
				return fmt.Errorf("step %v not found", stepType)
			}

			startTime := time.Now()
			err := step.Execute(ctx, p.state)
			duration := time.Since(startTime)
			p.metrics.ObserveStep(stepType.String(), duration)
			if err != nil {
				p.state.Logger.WithField("error", err.Error()).Error(fmt.Sprintf("Error executing step %v", stepType))
				p.publisher.Error(stepType, err)
				return err
			}
			p.state.Logger.Info(fmt.Sprintf("Step %v completed in %v", stepType, duration))
			p.publisher.PublishStep(stepType)
		}
	}

	p.state.Logger.Info("Pipeline execution completed")
	return nil
}

// Result returns the artifact and the written paths. It is only meaningful
// after Execute returned nil.
func (p *Pipeline) Result() Result {
	var r Result
	if p.state.Artifact != nil {
		r.Artifact = *p.state.Artifact
	}
	r.Written = p.state.Written
	return r
}

type StepPublisher interface {
	PublishStep(step StepType)
	Error(step StepType, err error)
	// Warn reports a failure the run recovered from.
	Warn(step StepType, err error)
	// RawResponse hands over the unprocessed model output in debug runs.
	RawResponse(text string)
}

type DefaultStepPublisher struct{}

func (p *DefaultStepPublisher) PublishStep(step StepType) {}

func (p *DefaultStepPublisher) Error(step StepType, err error) {}

func (p *DefaultStepPublisher) Warn(step StepType, err error) {}

func (p *DefaultStepPublisher) RawResponse(text string) {}
