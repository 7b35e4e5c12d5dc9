package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/santiagomed/rcgen/component"
	"github.com/santiagomed/rcgen/config"
	"github.com/santiagomed/rcgen/core"
	"github.com/santiagomed/rcgen/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, name := range []string{"RCGEN_API_KEY", "RCGEN_PROVIDER", "RCGEN_MODEL", "HF_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY"} {
		t.Setenv(name, "")
	}
	return dir
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"name", "prompt", "model", "tailwind", "bootstrap", "output", "force", "debug", "config", "provider", "strict", "metrics-file"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "src/components", cmd.Flags().Lookup("output").DefValue)
	assert.Equal(t, "n", cmd.Flags().Lookup("name").Shorthand)
}

func TestParseGenFlags(t *testing.T) {
	cmd := NewRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"-n", "nav", "-p", "top bar", "-t", "-b", "-f", "--strict"}))

	flags, err := parseGenFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, "nav", flags.name)
	assert.Equal(t, "top bar", flags.prompt)
	assert.True(t, flags.tailwind)
	assert.True(t, flags.bootstrap)
	assert.True(t, flags.force)
	assert.True(t, flags.strict)
	assert.False(t, flags.debug)
}

func TestRootCmd_MissingKey(t *testing.T) {
	isolate(t)

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--name", "card", "--provider", "openai"})

	err := cmd.Execute()
	require.Error(t, err)

	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, stderr.String(), "export OPENAI_API_KEY=<your key>")
	assert.Empty(t, stdout.String())
}

func TestKeyHints(t *testing.T) {
	hints := keyHints(config.ProviderHuggingFace)
	assert.Contains(t, hints, "RCGEN_API_KEY or HF_API_KEY")
	assert.Contains(t, hints, "export HF_API_KEY=<your key>")
	assert.Contains(t, hints, "$env:HF_API_KEY")
	assert.Contains(t, hints, ".env")
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)

	var stdout bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"config", "init"})
	require.NoError(t, cmd.Execute())

	path := filepath.Join(dir, ".rcgen", "config.yaml")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "provider: huggingface")
	assert.Contains(t, stdout.String(), "Wrote default configuration")

	cmd = NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"config", "init"})
	assert.Error(t, cmd.Execute())

	cmd = NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"config", "init", "--force"})
	assert.NoError(t, cmd.Execute())
}

func TestPrintResult(t *testing.T) {
	var out bytes.Buffer
	printResult(&out, core.Result{
		Artifact: component.Artifact{ComponentName: "UserCard", Origin: component.OriginGenerated},
		Written:  fs.ComponentPaths("src/components", "UserCard"),
	})

	assert.Contains(t, out.String(), "created successfully!")
	assert.Contains(t, out.String(), "UserCard")
	assert.Contains(t, out.String(), "Location: "+filepath.Join("src", "components", "UserCard"))
	assert.NotContains(t, out.String(), "template")
}
