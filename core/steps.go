package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/santiagomed/rcgen/code"
	"github.com/santiagomed/rcgen/component"
	"github.com/santiagomed/rcgen/fs"
	"github.com/santiagomed/rcgen/llm"
	"github.com/santiagomed/rcgen/metrics"
	"github.com/santiagomed/rcgen/templates"
)

type StepManager interface {
	GetSteps() []StepType
	GetStep(StepType) Step
}

// Dependencies are the collaborators the default steps work with.
type Dependencies struct {
	Client     llm.Client
	FileSystem *fs.FileSystem
	Validator  *code.Validator
	Metrics    *metrics.Recorder
}

type DefaultStepManager struct {
	steps map[StepType]Step
	order []StepType
}

func NewDefaultStepManager(deps Dependencies) *DefaultStepManager {
	if deps.Validator == nil {
		deps.Validator = code.NewValidator(false)
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewRecorder()
	}
	return &DefaultStepManager{
		steps: map[StepType]Step{
			BuildPrompt:   &BuildPromptStep{},
			GenerateCode:  &GenerateCodeStep{client: deps.Client, metrics: deps.Metrics},
			ExtractCode:   &ExtractCodeStep{},
			ValidateCode:  &ValidateCodeStep{validator: deps.Validator, metrics: deps.Metrics},
			ApplyTemplate: &ApplyTemplateStep{},
			WriteFiles:    &WriteFilesStep{fs: deps.FileSystem, metrics: deps.Metrics},
			Done:          &DoneStep{},
		},
		order: []StepType{BuildPrompt, GenerateCode, ExtractCode, ValidateCode, ApplyTemplate, WriteFiles, Done},
	}
}

func (sm *DefaultStepManager) GetSteps() []StepType {
	return sm.order
}

func (sm *DefaultStepManager) GetStep(stepType StepType) Step {
	return sm.steps[stepType]
}

type BuildPromptStep struct{}

func (s *BuildPromptStep) Execute(ctx context.Context, state *State) error {
	state.Prompt = llm.BuildPrompt(llm.PromptInput{
		Name:        state.Request.Name,
		Description: state.Request.Description,
		Styling:     state.Request.Styling,
	})
	state.Logger.Debug(fmt.Sprintf("Prompt built (%d bytes)", len(state.Prompt)))
	return nil
}

type GenerateCodeStep struct {
	client  llm.Client
	metrics *metrics.Recorder
}

func (s *GenerateCodeStep) Execute(ctx context.Context, state *State) error {
	log := state.Logger.WithField("provider", s.client.Provider()).WithField("model", s.client.ModelName())
	log.Info("Requesting component code")

	start := time.Now()
	raw, err := s.client.GetCompletion(ctx, state.Prompt)
	s.metrics.ObserveLLMRequest(s.client.Provider(), s.client.ModelName(), requestResult(err), time.Since(start))
	if err != nil {
		s.metrics.IncError("llm", requestResult(err))
		if state.Request.Strict {
			return fmt.Errorf("code generation failed: %w", err)
		}
		log.WithField("error", err.Error()).Warn("Code generation failed, falling back to template")
		state.GenerationErr = err
		state.Publisher.Warn(GenerateCode, err)
		return nil
	}

	state.Raw = raw
	log.Debug(fmt.Sprintf("Received %d bytes", len(raw)))
	if state.Request.Debug {
		state.Publisher.RawResponse(raw)
	}
	return nil
}

func requestResult(err error) string {
	if err == nil {
		return "ok"
	}
	var timeout *llm.TimeoutError
	if errors.As(err, &timeout) {
		return "timeout"
	}
	return "error"
}

type ExtractCodeStep struct{}

func (s *ExtractCodeStep) Execute(ctx context.Context, state *State) error {
	if state.GenerationErr != nil {
		state.Logger.Debug("Nothing to extract")
		return nil
	}
	state.Extracted = code.Extract(state.Raw)
	return nil
}

type ValidateCodeStep struct {
	validator *code.Validator
	metrics   *metrics.Recorder
}

func (s *ValidateCodeStep) Execute(ctx context.Context, state *State) error {
	if state.GenerationErr != nil {
		state.Logger.Debug("Nothing to validate")
		return nil
	}

	name := state.Request.ComponentName()
	err := s.validator.Check(state.Extracted, name)
	s.metrics.ObserveValidation(err == nil)
	if err != nil {
		state.Logger.WithField("error", err.Error()).Warn("Generated code rejected, falling back to template")
		state.ValidationErr = err
		state.Publisher.Warn(ValidateCode, err)
		return nil
	}

	state.Artifact = &component.Artifact{
		Source:        state.Extracted,
		ComponentName: name,
		Origin:        component.OriginGenerated,
	}
	return nil
}

type ApplyTemplateStep struct{}

func (s *ApplyTemplateStep) Execute(ctx context.Context, state *State) error {
	if state.Artifact != nil {
		return nil
	}

	req := state.Request
	name := req.ComponentName()
	src, err := templates.Fallback(req.Styling, name, req.Description)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	reason := state.GenerationErr
	if reason == nil {
		reason = state.ValidationErr
	}
	state.Artifact = &component.Artifact{
		Source:         src,
		ComponentName:  name,
		Origin:         component.OriginTemplated,
		FallbackReason: reason,
	}
	state.Logger.Info(fmt.Sprintf("Using %s template for %s", req.Styling, name))
	return nil
}

type WriteFilesStep struct {
	fs      *fs.FileSystem
	metrics *metrics.Recorder
}

func (s *WriteFilesStep) Execute(ctx context.Context, state *State) error {
	a := state.Artifact
	if a == nil {
		return errors.New("no component to write")
	}

	written, err := s.fs.WriteComponent(state.Request.OutputDir, a.ComponentName, a.Source, state.Request.Overwrite)
	if err != nil {
		var exists *fs.AlreadyExistsError
		if errors.As(err, &exists) {
			s.metrics.IncError("fs", "already_exists")
		} else {
			s.metrics.IncError("fs", "io")
		}
		return fmt.Errorf("failed to write component: %w", err)
	}

	state.Written = written
	s.metrics.IncGeneration(a.Origin.String())

	files, err := s.fs.ListFiles(written.Dir)
	if err != nil {
		state.Logger.Debug(fmt.Sprintf("Unable to list %s: %v", written.Dir, err))
		return nil
	}
	state.Logger.Debug(fmt.Sprintf("%s now contains %v", written.Dir, files))
	return nil
}

type DoneStep struct{}

func (s *DoneStep) Execute(ctx context.Context, state *State) error {
	if a := state.Artifact; a != nil {
		state.Logger.WithField("origin", a.Origin.String()).Info(fmt.Sprintf("Component %s created", a.ComponentName))
	}
	return nil
}
