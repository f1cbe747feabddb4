package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	deepresearch "github.com/furixturi/deep-research-scratch"
	"github.com/furixturi/deep-research-scratch/config"
	"github.com/furixturi/deep-research-scratch/logging"
	"github.com/furixturi/deep-research-scratch/model"
	"github.com/furixturi/deep-research-scratch/server"
)

const shutdownTimeout = 10 * time.Second

// builder creates the façade from loaded configuration. Tests swap it for
// one backed by a mock transport.
type builder func(cfg *config.Config, logger logging.Logger) (*deepresearch.DeepResearch, error)

type app struct {
	configPath string
	envFiles   []string
	build      builder
}

func defaultBuilder(envFiles []string) builder {
	return func(cfg *config.Config, logger logging.Logger) (*deepresearch.DeepResearch, error) {
		creds, err := config.LoadCredentials(envFiles...)
		if err != nil {
			return nil, err
		}
		return deepresearch.NewFromConfig(cfg, creds, func(o *deepresearch.Options) {
			o.Logger = logger
		})
	}
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}
	return a.rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "deepresearch",
		Short: "Deep research agent",
		Long: `deepresearch drives a language model through a bounded
reason-act-observe loop with a registry of tools.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.build == nil {
				a.build = defaultBuilder(a.envFiles)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultPath, "Configuration file path")
	rootCmd.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "Dotenv files with provider credentials (default .env if present)")

	rootCmd.AddCommand(a.newServeCmd())
	rootCmd.AddCommand(a.newRunCmd())
	rootCmd.AddCommand(a.newModelCmd())

	return rootCmd
}

// setup loads configuration and builds the façade. Logs go to stderr so the
// stdout of run and model stays clean.
func (a *app) setup() (*config.Config, *deepresearch.DeepResearch, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, nil, err
	}
	dr, err := a.build(cfg, cfg.Logger(os.Stderr))
	if err != nil {
		return nil, nil, err
	}
	return cfg, dr, nil
}

func (a *app) newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the agent over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dr, err := a.setup()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			srv := server.New(dr, func(o *server.Options) {
				o.Logger = cfg.Logger(os.Stderr).WithComponent("server")
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start(addr) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}

func (a *app) newRunCmd() *cobra.Command {
	var (
		maxSteps int
		provider string
		modelID  string
	)

	cmd := &cobra.Command{
		Use:   "run [PROMPT]",
		Short: "Run the agent once and print the answer",
		Example: `  deepresearch run "What is the capital of France?"
  deepresearch run --max-steps 3 --provider openai --model o3 "Summarize Go generics"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, dr, err := a.setup()
			if err != nil {
				return err
			}

			reqCfg := map[string]any{}
			if maxSteps > 0 {
				reqCfg["max_steps"] = maxSteps
			}
			if provider != "" {
				reqCfg["provider"] = provider
			}
			if modelID != "" {
				reqCfg["model"] = modelID
			}

			answer, err := dr.Run(cmd.Context(), strings.Join(args, " "), reqCfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Step budget for this run (default from config)")
	cmd.Flags().StringVar(&provider, "provider", "", "Model provider override")
	cmd.Flags().StringVar(&modelID, "model", "", "Model name override")

	return cmd
}

func (a *app) newModelCmd() *cobra.Command {
	var (
		provider string
		modelID  string
		agentID  string
		prompt   string
	)

	cmd := &cobra.Command{
		Use:   "model",
		Short: "Call the configured model once, without the agent loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (provider == "") != (modelID == "") {
				return errors.New("--provider and --model must be given together")
			}
			_, dr, err := a.setup()
			if err != nil {
				return err
			}

			p, _ := model.ParseProvider(provider)
			override := model.Config{Provider: p, Model: modelID}
			resolved, err := dr.Router().Resolve(agentID, override)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Calling %s | %s for agent %s\n", resolved.Provider, resolved.Model, agentID)

			res, err := dr.CallModel(cmd.Context(), model.CallRequest{
				Messages: []model.Message{
					{Role: model.RoleSystem, Content: "You are a helpful assistant."},
					{Role: model.RoleUser, Content: prompt},
				},
				AgentID:  agentID,
				Override: override,
			})
			if err != nil {
				return err
			}
			printResult(out, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Model provider (aoai, openai, anthropic)")
	cmd.Flags().StringVar(&modelID, "model", "", "Model name")
	cmd.Flags().StringVar(&agentID, "agent", "single_agent", "Agent ID selecting the per-agent model layer")
	cmd.Flags().StringVar(&prompt, "prompt", "What is the capital of Germany?", "User prompt")

	return cmd
}

func printResult(w io.Writer, res model.Result) {
	switch r := res.(type) {
	case model.TextResult:
		fmt.Fprintf(w, "Model response: %s\n", r.Text)
	case model.ToolCallResult:
		if r.Content != "" {
			fmt.Fprintf(w, "Model response: %s\n", r.Content)
		}
		for _, tc := range r.ToolCalls {
			fmt.Fprintf(w, "Tool call %s: %s(%s)\n", tc.ID, tc.Function.Name, tc.Function.Arguments)
		}
	}
}
