// polystories - Polymarket whale and hot market alerts for Discord.
// Scans the leaderboard and active markets and posts up to three stories per run.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/leeaandrob/polystories/internal/config"
	"github.com/leeaandrob/polystories/internal/content"
	"github.com/leeaandrob/polystories/internal/scheduler"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const scanJobName = "story-scan"

var (
	debug     bool
	runNow    bool
	minAmount float64
)

var rootCmd = &cobra.Command{
	Use:          "polystories",
	Short:        "Post Polymarket whale and hot market stories to Discord",
	Long:         "Runs one story scan: fetches top traders and active markets, posts up to three stories (or one fallback) and exits.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		app := newApp(cfg, log.Logger)
		result := app.pipeline.Run(cmd.Context())

		log.Info().
			Int("sent", result.Sent).
			Int("delivered", result.Delivered).
			Msg("Story scan finished")
		return nil
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the story scan on STORY_SCHEDULE until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		app := newApp(cfg, log.Logger)
		sched := scheduler.NewScheduler(scheduler.WithLogger(log.Logger))

		err = sched.AddJob(scanJobName, cfg.StorySchedule, func(ctx context.Context) error {
			app.pipeline.Run(ctx)
			return nil
		})
		if err != nil {
			return err
		}

		sched.Start()
		if runNow {
			if err := sched.RunJobNow(scanJobName); err != nil {
				log.Error().Err(err).Msg("Failed to start immediate scan")
			}
		}

		log.Info().Str("schedule", cfg.StorySchedule).Msg("polystories scheduler running")

		<-cmd.Context().Done()
		log.Info().Msg("Shutdown signal received")
		sched.Stop()

		log.Info().Msg("polystories scheduler stopped")
		return nil
	},
}

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "List recent large trades from the Data API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		app := newApp(cfg, log.Logger)
		trades, err := app.polymarket.FetchBigTrades(cmd.Context(), decimal.NewFromFloat(minAmount))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, t := range trades {
			fmt.Fprintf(out, "%s\t%s\t%s\t$%s\t%s\n",
				t.Timestamp.Format(content.TimestampLayout),
				t.User,
				t.Side,
				t.Notional().StringFixed(2),
				t.Market)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	scheduleCmd.Flags().BoolVar(&runNow, "now", false, "run one scan immediately after starting")
	tradesCmd.Flags().Float64Var(&minAmount, "min", 1000, "minimum trade notional in USD")

	rootCmd.AddCommand(scheduleCmd, tradesCmd)
}

// setup loads configuration and applies the log level.
func setup() (*config.Config, error) {
	cfg, err := config.Load(log.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.Debug || debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := cfg.Validate(log.Logger); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		log.Error().Err(err).Msg("polystories failed")
		os.Exit(1)
	}
}
