package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dmitrijs2005/biblio/internal/client/cli"
	"github.com/dmitrijs2005/biblio/internal/client/config"
	"github.com/dmitrijs2005/biblio/internal/logging"
	"github.com/dmitrijs2005/biblio/internal/telemetry"
)

const serviceName = "biblio"

// NewRootCmd creates the root command. Without a subcommand it starts the
// interactive client.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "biblio",
		Short:        "biblio - a terminal client for the library service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				return app.Run(ctx)
			})
		},
	}

	// Registered so cobra accepts them; config.LoadConfig does the parsing.
	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", "", "JSON config file")
	pf.StringP("api", "a", "", "base URL of the library service")
	pf.StringP("store", "s", "", "path to the local store")
	pf.IntP("timeout", "t", 0, "request timeout (in seconds)")
	pf.StringP("metrics", "m", "", "metrics listen address")

	cmd.AddCommand(newReplCmd())
	cmd.AddCommand(newWhoAmICmd())
	cmd.AddCommand(newLogoutCmd())
	return cmd
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive client (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				return app.Run(ctx)
			})
		},
	}
}

func newWhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Restore the saved session and show who is signed in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				app.Resolve(ctx)
				return app.WhoAmI(ctx)
			})
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				return app.Logout(ctx)
			})
		},
	}
}

// configArgs turns the flags set on the command line back into the short
// form understood by config.LoadConfig.
func configArgs(flags *pflag.FlagSet) []string {
	var args []string
	flags.Visit(func(f *pflag.Flag) {
		args = append(args, "-"+f.Shorthand, f.Value.String())
	})
	return args
}

// withApp loads configuration, starts telemetry and runs fn with a fully
// wired client. Everything is torn down when fn returns.
func withApp(cmd *cobra.Command, fn func(context.Context, *cli.App) error) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(configArgs(cmd.Flags()))
	if err != nil {
		return err
	}

	// warn keeps the terminal readable; diagnostics go to stderr
	logger := logging.NewJSONLogger(cmd.ErrOrStderr(), slog.LevelWarn)

	shutdownTracing, err := telemetry.SetupTracing(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		logging.LogError(ctx, logger, "tracing disabled", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logging.LogError(sctx, logger, "error flushing traces", err)
		}
	}()

	if cfg.MetricsAddr != "" {
		metrics := telemetry.NewMetricsServer(cfg.MetricsAddr, logger)
		if err := metrics.Start(ctx); err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = metrics.Shutdown(sctx)
		}()
	}

	app, err := cli.NewApp(ctx, cfg, logger, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logging.LogError(ctx, logger, "error closing store", err)
		}
	}()

	return fn(ctx, app)
}
