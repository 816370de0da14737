package commands

// Root command for Cobra CLI
// Loads configuration, wires the optional Telegram publisher and runs the report
// Exits non-zero when the input is unusable or any chart failed

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"boxoffice-report/internal/clients_api/telegram"
	"boxoffice-report/internal/config"
	"boxoffice-report/internal/features/charts"
	logging "boxoffice-report/internal/infra/log"
	"boxoffice-report/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "boxoffice-report [flags] <input.csv>",
	Short: "Box office EDA - renders ten charts answering business questions about movie profitability",
	Long: `boxoffice-report reads a CSV of movies (genre, release date, box office gross and net, budget),
derives profit and profit margin, and writes ten PNG charts plus an optional overview sheet
and summary workbook. Charts can optionally be sent to a Telegram chat.`,
	Version:       "1.0.0",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runReport,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.RegisterFlags(rootCmd.Flags())
}

func runReport(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		if err := cmd.Flags().Set("input", args[0]); err != nil {
			return fmt.Errorf("failed to set input: %w", err)
		}
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logging.Init(cfg.Log.Dir); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := pipeline.Options{
		Input:     cfg.Report.Input,
		OutputDir: cfg.Report.OutputDir,
		Style:     charts.Style{DPI: cfg.Report.DPI, FontPath: cfg.Report.FontPath},
		Overview:  cfg.Report.Overview,
		Summary:   cfg.Report.Summary,
		Show:      cfg.Report.Show,
	}

	if cfg.Telegram.Enabled {
		publisher, err := newPublisher(cfg.Telegram)
		if err != nil {
			// charts are still worth producing locally
			logging.LogError("Telegram publishing disabled", zap.Error(err))
		} else {
			opts.Publisher = publisher
		}
	}

	result, err := pipeline.Run(ctx, opts, cmd.OutOrStdout())
	if err != nil {
		logging.LogError("Report run failed", zap.Error(err))
		return err
	}

	logging.LogSuccess("Report complete",
		zap.String("output_dir", cfg.Report.OutputDir),
		zap.Int("charts", len(result.Outcomes)),
		zap.Int("sent", result.Sent))
	return nil
}

func newPublisher(cfg config.TelegramConfig) (*telegram.Publisher, error) {
	chatID, err := telegram.ParseChatID(cfg.ChatID)
	if err != nil {
		return nil, err
	}
	bot, err := telegram.NewBot(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	return telegram.NewPublisher(bot, chatID, telegram.Options{
		MessagesPerSecond: cfg.MessagesPerSecond,
		MaxRetries:        cfg.MaxRetries,
	}), nil
}
