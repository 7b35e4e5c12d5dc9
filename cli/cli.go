package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/santiagomed/rcgen/code"
	"github.com/santiagomed/rcgen/component"
	"github.com/santiagomed/rcgen/config"
	"github.com/santiagomed/rcgen/core"
	"github.com/santiagomed/rcgen/fs"
	"github.com/santiagomed/rcgen/llm"
	"github.com/santiagomed/rcgen/logger"
	"github.com/santiagomed/rcgen/metrics"
	"github.com/spf13/cobra"
)

type genFlags struct {
	name       string
	prompt     string
	tailwind   bool
	bootstrap  bool
	force      bool
	debug      bool
	strict     bool
	configPath string
}

// NewRootCmd builds the rcgen command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rcgen",
		Short: "rcgen generates React components",
		Long: `rcgen asks a text-generation model for a React functional component and writes it to
<output>/<Name>/<Name>.jsx together with an index.js re-export. When the model
fails or returns unusable code, a built-in template is written instead.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags, err := parseGenFlags(cmd)
			if err != nil {
				return fmt.Errorf("error parsing flags: %w", err)
			}
			return runGenerate(cmd, flags)
		},
	}

	f := rootCmd.Flags()
	f.StringP("name", "n", "", "Component name, e.g. user-card")
	f.StringP("prompt", "p", "", "Description of what the component should do")
	f.StringP("model", "m", "", "Model identifier (defaults to the provider's default model)")
	f.BoolP("tailwind", "t", false, "Style the component with Tailwind CSS")
	f.BoolP("bootstrap", "b", false, "Style the component with Bootstrap (wins over --tailwind)")
	f.StringP("output", "o", "src/components", "Output directory")
	f.BoolP("force", "f", false, "Overwrite an existing component")
	f.Bool("debug", false, "Print the raw model response and log at debug level")
	f.StringP("config", "c", "", "Path to a config file (default ~/.rcgen/config.yaml)")
	f.String("provider", "", "Generation provider: huggingface, openai or anthropic")
	f.Bool("strict", false, "Fail instead of falling back to a template when the remote call fails")
	f.String("metrics-file", "", "Write run metrics in Prometheus text format to this file")

	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func parseGenFlags(cmd *cobra.Command) (genFlags, error) {
	var g genFlags
	var err error
	f := cmd.Flags()

	if g.name, err = f.GetString("name"); err != nil {
		return genFlags{}, err
	}
	if g.prompt, err = f.GetString("prompt"); err != nil {
		return genFlags{}, err
	}
	if g.tailwind, err = f.GetBool("tailwind"); err != nil {
		return genFlags{}, err
	}
	if g.bootstrap, err = f.GetBool("bootstrap"); err != nil {
		return genFlags{}, err
	}
	if g.force, err = f.GetBool("force"); err != nil {
		return genFlags{}, err
	}
	if g.debug, err = f.GetBool("debug"); err != nil {
		return genFlags{}, err
	}
	if g.strict, err = f.GetBool("strict"); err != nil {
		return genFlags{}, err
	}
	if g.configPath, err = f.GetString("config"); err != nil {
		return genFlags{}, err
	}
	return g, nil
}

func runGenerate(cmd *cobra.Command, flags genFlags) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(flags.configPath, cmd.Flags())
	if err != nil {
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) && cfgErr.Field == "APIKey" {
			fmt.Fprintln(cmd.ErrOrStderr(), keyHints(providerOrDefault(cmd)))
		}
		return err
	}

	log, closeLog, err := openLog(cfg, flags.debug)
	if err != nil {
		return err
	}
	defer closeLog.Close()
	log = log.WithField("run_id", uuid.NewString())
	log.Info(fmt.Sprintf("rcgen started with provider %s", cfg.Provider))

	draft := core.Draft{
		Name:        flags.name,
		Description: flags.prompt,
		Model:       cfg.Model,
		OutputDir:   cfg.OutputDir,
		Tailwind:    flags.tailwind,
		Bootstrap:   flags.bootstrap,
		Overwrite:   flags.force,
		Debug:       flags.debug,
		Strict:      flags.strict,
	}
	if draft.StylingConflict() {
		log.Warn("Both --tailwind and --bootstrap given, using Bootstrap")
		fmt.Fprintln(out, warnStyle.Render("Both --tailwind and --bootstrap given, using Bootstrap."))
	}

	req, err := core.ResolveRequest(draft, newTeaPrompter(cmd.InOrStdin(), out))
	if err != nil {
		return err
	}
	log.WithField("component", req.ComponentName()).WithField("styling", req.Styling.String()).Info("Request resolved")

	client, err := llm.NewClient(cfg.LlmConfig(req.Model), log)
	if err != nil {
		return &config.ConfigurationError{Field: "Provider", Msg: "unable to create generation client", Err: err}
	}

	recorder := metrics.NewRecorder()
	result, runErr := generate(cmd, req, client, cfg, recorder, log)

	if cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn(err.Error())
		}
	}
	if runErr != nil {
		return runErr
	}

	printResult(out, result)
	return nil
}

func generate(cmd *cobra.Command, req *core.Request, client llm.Client, cfg *config.Config, recorder *metrics.Recorder, log logger.Logger) (core.Result, error) {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sm := core.NewDefaultStepManager(core.Dependencies{
		Client:     client,
		FileSystem: fs.NewOsFileSystem(),
		Validator:  code.NewValidator(cfg.SyntaxCheck),
		Metrics:    recorder,
	})
	pub := &teaPublisher{logger: log}
	pipeline := core.NewPipeline(req, sm, pub, recorder, log)

	engine := NewEngine(log, 1)
	engine.Start(ctx)
	defer engine.Shutdown(5 * time.Second)

	model := newGenerateModel(sm.GetSteps(), func() chan error { return engine.Submit(pipeline) }, cancel, log)
	program := tea.NewProgram(model, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
	pub.program = program

	final, err := program.Run()
	if err != nil {
		return core.Result{}, fmt.Errorf("error running program: %w", err)
	}
	m := final.(generateModel)
	if m.aborted {
		return core.Result{}, ErrAborted
	}
	if m.err != nil {
		return core.Result{}, m.err
	}
	return pipeline.Result(), nil
}

func openLog(cfg *config.Config, debug bool) (logger.Logger, io.Closer, error) {
	path := cfg.LogFile
	if path == "" {
		var err error
		if path, err = logger.DefaultLogPath(); err != nil {
			return nil, nil, err
		}
	}
	return logger.NewFileLogger(path, debug)
}

func printResult(out io.Writer, result core.Result) {
	a := result.Artifact
	if a.Origin == component.OriginTemplated {
		fmt.Fprintln(out, faintStyle.Render(fmt.Sprintf("Used the built-in template (%v).", a.FallbackReason)))
	}
	fmt.Fprintf(out, "%s Component %s created successfully!\n", checkStyle.Render("✓"), nameStyle.Render(a.ComponentName))
	fmt.Fprintf(out, "Location: %s\n", result.Written.Dir)
}

func providerOrDefault(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("provider"); p != "" {
		return p
	}
	if p := os.Getenv("RCGEN_PROVIDER"); p != "" {
		return p
	}
	return config.ProviderHuggingFace
}

// keyHints explains how to provide a credential in common shells.
func keyHints(provider string) string {
	vars := config.KeyEnvVars(provider)
	name := vars[len(vars)-1]

	var b strings.Builder
	b.WriteString(fmt.Sprintf("No API key found. Set %s, for example:\n", strings.Join(vars, " or ")))
	b.WriteString(fmt.Sprintf("  bash/zsh:    export %s=<your key>\n", name))
	b.WriteString(fmt.Sprintf("  fish:        set -gx %s <your key>\n", name))
	b.WriteString(fmt.Sprintf("  PowerShell:  $env:%s = \"<your key>\"\n", name))
	b.WriteString(fmt.Sprintf("  cmd.exe:     set %s=<your key>\n", name))
	b.WriteString("or put it in a .env file in the current directory.")
	return b.String()
}

// Execute runs the root command and exits with status 1 on any error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
