package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/santiagomed/rcgen/code"
	"github.com/santiagomed/rcgen/component"
	"github.com/santiagomed/rcgen/fs"
	"github.com/santiagomed/rcgen/llm"
	"github.com/santiagomed/rcgen/logger"
	"github.com/santiagomed/rcgen/metrics"
	"github.com/santiagomed/rcgen/templates"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLLM is a mock implementation of the LLM client
type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) GetCompletion(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockLLM) ModelName() string { return "test-model" }
func (m *MockLLM) Provider() string  { return "test" }

type Publisher struct {
	steps    []StepType
	errors   []error
	warnings []error
	raw      []string
}

func (p *Publisher) PublishStep(step StepType)      { p.steps = append(p.steps, step) }
func (p *Publisher) Error(step StepType, err error) { p.errors = append(p.errors, err) }
func (p *Publisher) Warn(step StepType, err error)  { p.warnings = append(p.warnings, err) }
func (p *Publisher) RawResponse(text string)        { p.raw = append(p.raw, text) }

type fixture struct {
	llm       *MockLLM
	fs        *fs.FileSystem
	publisher *Publisher
	metrics   *metrics.Recorder
}

func newFixture() *fixture {
	return &fixture{
		llm:       new(MockLLM),
		fs:        fs.NewMemoryFileSystem(),
		publisher: &Publisher{},
		metrics:   metrics.NewRecorder(),
	}
}

func (f *fixture) pipeline(r *Request) *Pipeline {
	sm := NewDefaultStepManager(Dependencies{
		Client:     f.llm,
		FileSystem: f.fs,
		Validator:  code.NewValidator(true),
		Metrics:    f.metrics,
	})
	return NewPipeline(r, sm, f.publisher, f.metrics, logger.NewNullLogger())
}

func (f *fixture) read(t *testing.T, path string) string {
	t.Helper()
	content, err := afero.ReadFile(f.fs.Fs, path)
	require.NoError(t, err)
	return string(content)
}

func userCardRequest() *Request {
	return &Request{
		Name:        "user-card",
		Description: "shows a user avatar and name",
		Styling:     component.StylingTailwind,
		Model:       "test-model",
		OutputDir:   "src/components",
	}
}

func TestPipeline_TimeoutFallsBackToTemplate(t *testing.T) {
	f := newFixture()
	f.llm.On("GetCompletion", mock.Anything, mock.AnythingOfType("string")).
		Return("", &llm.TimeoutError{After: 60 * time.Second}).Once()

	p := f.pipeline(userCardRequest())
	require.NoError(t, p.Execute(context.Background()))

	tmpl, err := templates.Render(component.StylingTailwind, "UserCard")
	require.NoError(t, err)

	assert.Equal(t, "// shows a user avatar and name\n"+tmpl, f.read(t, "src/components/UserCard/UserCard.jsx"))
	assert.Equal(t, "export { default } from './UserCard';\n", f.read(t, "src/components/UserCard/index.js"))

	result := p.Result()
	assert.Equal(t, component.OriginTemplated, result.Artifact.Origin)
	var timeout *llm.TimeoutError
	assert.True(t, errors.As(result.Artifact.FallbackReason, &timeout))

	assert.Equal(t, []StepType{BuildPrompt, GenerateCode, ExtractCode, ValidateCode, ApplyTemplate, WriteFiles, Done}, f.publisher.steps)
	require.Len(t, f.publisher.warnings, 1)
	assert.Empty(t, f.publisher.errors)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LLMRequests.WithLabelValues("test", "test-model", "timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Generations.WithLabelValues("templated")))
	f.llm.AssertExpectations(t)
}

func TestPipeline_GeneratedCodeIsWritten(t *testing.T) {
	f := newFixture()
	body := "import React from 'react';\nconst UserCard = ({ name }) => <div className=\"p-2\">{name}</div>;\nexport default UserCard;"
	f.llm.On("GetCompletion", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return prompt == llm.BuildPrompt(llm.PromptInput{
			Name:        "user-card",
			Description: "shows a user avatar and name",
			Styling:     component.StylingTailwind,
		})
	})).Return("Here it is:\n```jsx\n"+body+"\n```\nHope it helps!", nil).Once()

	p := f.pipeline(userCardRequest())
	require.NoError(t, p.Execute(context.Background()))

	assert.Equal(t, body, f.read(t, "src/components/UserCard/UserCard.jsx"))
	assert.Equal(t, component.OriginGenerated, p.Result().Artifact.Origin)
	assert.Nil(t, p.Result().Artifact.FallbackReason)
	assert.Empty(t, f.publisher.warnings)
	assert.Empty(t, f.publisher.raw)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ValidationRuns.WithLabelValues("pass")))
	f.llm.AssertExpectations(t)
}

func TestPipeline_RejectedCodeFallsBackWithComment(t *testing.T) {
	f := newFixture()
	f.llm.On("GetCompletion", mock.Anything, mock.Anything).
		Return("<table><tr><td>UserCard</td></tr></table>", nil).Once()

	r := userCardRequest()
	r.Styling = component.StylingBootstrap
	p := f.pipeline(r)
	require.NoError(t, p.Execute(context.Background()))

	expected, err := templates.Fallback(component.StylingBootstrap, "UserCard", r.Description)
	require.NoError(t, err)
	assert.Equal(t, expected, f.read(t, "src/components/UserCard/UserCard.jsx"))

	var invalid *code.InvalidSourceError
	assert.True(t, errors.As(p.Result().Artifact.FallbackReason, &invalid))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ValidationRuns.WithLabelValues("fail")))
}

func TestPipeline_StrictModeAborts(t *testing.T) {
	f := newFixture()
	f.llm.On("GetCompletion", mock.Anything, mock.Anything).
		Return("", &llm.RemoteServiceError{Status: 503, Body: "loading"}).Once()

	r := userCardRequest()
	r.Strict = true
	err := f.pipeline(r).Execute(context.Background())
	require.Error(t, err)

	var remote *llm.RemoteServiceError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, 503, remote.Status)
	assert.Equal(t, []StepType{BuildPrompt}, f.publisher.steps)
	require.Len(t, f.publisher.errors, 1)

	exists, err := afero.DirExists(f.fs.Fs, "src/components/UserCard")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPipeline_ExistingComponent(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.fs.Fs.MkdirAll("src/components/UserCard", 0755))
	require.NoError(t, f.fs.WriteFile("src/components/UserCard/UserCard.jsx", "keep me"))
	f.llm.On("GetCompletion", mock.Anything, mock.Anything).Return("", &llm.TimeoutError{After: time.Second}).Once()

	err := f.pipeline(userCardRequest()).Execute(context.Background())
	require.Error(t, err)

	var exists *fs.AlreadyExistsError
	assert.True(t, errors.As(err, &exists))
	assert.Equal(t, "keep me", f.read(t, "src/components/UserCard/UserCard.jsx"))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Errors.WithLabelValues("fs", "already_exists")))
}

func TestPipeline_ExistingComponentWithOverwrite(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.fs.Fs.MkdirAll("src/components/UserCard", 0755))
	require.NoError(t, f.fs.WriteFile("src/components/UserCard/UserCard.jsx", "old"))
	f.llm.On("GetCompletion", mock.Anything, mock.Anything).Return("", &llm.TimeoutError{After: time.Second}).Once()

	r := userCardRequest()
	r.Overwrite = true
	require.NoError(t, f.pipeline(r).Execute(context.Background()))
	assert.NotEqual(t, "old", f.read(t, "src/components/UserCard/UserCard.jsx"))
}

func TestPipeline_DebugPublishesRawResponse(t *testing.T) {
	f := newFixture()
	f.llm.On("GetCompletion", mock.Anything, mock.Anything).Return("not code at all", nil).Once()

	r := userCardRequest()
	r.Debug = true
	require.NoError(t, f.pipeline(r).Execute(context.Background()))

	assert.Equal(t, []string{"not code at all"}, f.publisher.raw)
}

func TestPipeline_Cancel(t *testing.T) {
	f := newFixture()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.pipeline(userCardRequest()).Execute(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.publisher.steps)
	f.llm.AssertNotCalled(t, "GetCompletion", mock.Anything, mock.Anything)
}

func TestStepType_String(t *testing.T) {
	assert.Equal(t, "GenerateCode", GenerateCode.String())
	assert.Equal(t, "StepType(42)", StepType(42).String())
}
