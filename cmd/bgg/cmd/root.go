package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"bggclient/cmd/bgg/globals"
	"bggclient/internal/components/telemetry"
	"bggclient/lib/platforms/bgg"
	"bggclient/lib/restyutil"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

var (
	verbose    bool
	dumpDir    string
	configName string
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output, including every http request")
	rootCmd.PersistentFlags().StringVar(&dumpDir, "dump-http", "", "write every http exchange to files in this directory (it is cleared first)")
	rootCmd.PersistentFlags().StringVar(&configName, "config", "bgg.json5", "name of the config file, looked up in the current directory and its parents")
}

var rootCmd = &cobra.Command{
	Use:          "bgg",
	Short:        "bgg is a CLI for querying boardgamegeek.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		config, path, err := LoadConfig(".", configName)
		if err != nil {
			return err
		}
		if path != "" {
			slog.Debug("read config", "path", path)
		}

		value, err := setup(cmd.Context(), config)
		if err != nil {
			return err
		}
		cmd.SetContext(globals.Set(cmd.Context(), value))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := globals.Get(cmd.Context()).Telemetry.Shutdown(ctx); err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	},
}

func setup(ctx context.Context, config Config) (*globals.Value, error) {
	otelTelemetry, err := telemetry.Setup(ctx, "bgg", config.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("setup telemetry: %w", err)
	}
	tel, err := telemetry.NewOtelAPI(telemetry.SlogAPI{}, otel.Meter("bggclient/cmd/bgg"))
	if err != nil {
		return nil, fmt.Errorf("setup telemetry: %w", err)
	}

	opts, err := config.ClientOptions()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if dumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(dumpDir)
		if err != nil {
			return nil, fmt.Errorf("dump-http: %w", err)
		}
		opts.Protocol.MessageOutput = output
	}

	client, err := bgg.NewClient(opts, tel)
	if err != nil {
		return nil, err
	}
	return &globals.Value{
		Client:    client,
		Telemetry: otelTelemetry,
	}, nil
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
