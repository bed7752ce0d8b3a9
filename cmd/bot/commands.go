package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/infra/config"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

// errCycleFailed is returned by "once" when the single cycle did not complete.
var errCycleFailed = errors.New("poll cycle failed")

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "homework-bot",
		Short: "Polls the Practicum homework API and reports status changes to Telegram",
		Long: `homework-bot asks the homework status API every RETRY_PERIOD for homeworks
changed since the last successful poll and sends the newest verdict to TELEGRAM_CHAT_ID.

Required environment: PRACTICUM_TOKEN, TELEGRAM_TOKEN, TELEGRAM_CHAT_ID.
A .env file in the working directory is read if present.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runBot,
	}

	onceCmd := &cobra.Command{
		Use:   "once",
		Short: "Run a single poll cycle and exit",
		RunE:  runOnce,
	}
	onceCmd.Flags().Int64("from", -1, "Unix timestamp to poll from (default: now)")

	checkCmd := &cobra.Command{
		Use:   "check-config",
		Short: "Validate the environment and exit",
		RunE:  runCheckConfig,
	}

	rootCmd.AddCommand(onceCmd, checkCmd)
	return rootCmd
}

// agent holds the wired components of one process.
type agent struct {
	cfg    *config.AppConfig
	logger *logrus.Logger
	closer io.Closer
	poller *app.Poller
}

func (a *agent) Close() {
	_ = a.closer.Close()
}

// loadConfig is the Starting state: any missing credential stops the process
// before a single request is made.
func loadConfig(cmd *cobra.Command) (*config.AppConfig, error) {
	boot := logger.Bootstrap()
	boot.SetOutput(cmd.ErrOrStderr())

	cfg, err := config.Load()
	if err != nil {
		entry := boot.WithError(err).WithField("state", app.StateStopped.String())
		if errors.Is(err, config.ErrMissingCredentials) {
			entry.Log(logrus.FatalLevel, "Check tokens. Bot stopped!")
		} else {
			entry.Log(logrus.FatalLevel, "Could not load application configuration")
		}
		return nil, err
	}
	return cfg, nil
}

func newAgent(cmd *cobra.Command, opts ...app.PollerOption) (*agent, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, closer := logger.New(cfg)
	log.WithFields(logrus.Fields{
		"log_level":    cfg.LogLevel,
		"environment":  cfg.Environment,
		"retry_period": cfg.RetryPeriod.String(),
	}).Info("Configuration loaded")

	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramAPIURL, cfg.HTTPTimeout)
	if err != nil {
		log.WithError(err).Error("Could not create Telegram bot")
		_ = closer.Close()
		return nil, err
	}

	notifier := app.NewTelegramNotifier(
		telegram.NewTelebotAdapter(bot),
		cfg.TelegramChatID,
		rate.NewLimiter(rate.Limit(cfg.TelegramRatePerSec), 1),
		log,
	)
	client := practicum.NewClient(cfg.Endpoint, cfg.PracticumToken, cfg.HTTPTimeout, log)
	poller := app.NewPoller(client, notifier, cfg.RetryPeriod, log, opts...)

	return &agent{cfg: cfg, logger: log, closer: closer, poller: poller}, nil
}

func runBot(cmd *cobra.Command, _ []string) error {
	a, err := newAgent(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.HeartbeatSpec != "" {
		heartbeat := scheduler.NewHeartbeatScheduler(a.poller, a.logger, a.cfg.HeartbeatSpec)
		if err := heartbeat.Start(); err != nil {
			a.logger.WithError(err).Error("Heartbeat disabled")
		} else {
			defer heartbeat.Stop()
		}
	}

	err = a.poller.Run(cmd.Context())
	a.logger.Info("Application shut down gracefully.")
	if cmd.Context().Err() != nil {
		return nil
	}
	return err
}

func runOnce(cmd *cobra.Command, _ []string) error {
	var opts []app.PollerOption
	if from, _ := cmd.Flags().GetInt64("from"); from >= 0 {
		opts = append(opts, app.WithCursor(from))
	}

	a, err := newAgent(cmd, opts...)
	if err != nil {
		return err
	}
	defer a.Close()

	cycle := a.poller.RunCycle(cmd.Context())
	fmt.Fprintf(cmd.OutOrStdout(), "outcome=%s cursor=%d\n", cycle.Outcome, cycle.Cursor)
	if cycle.Message != "" {
		fmt.Fprintln(cmd.OutOrStdout(), cycle.Message)
	}
	if cycle.Outcome == app.CycleFailed {
		return fmt.Errorf("%w: %v", errCycleFailed, cycle.Err)
	}
	return nil
}

func runCheckConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "configuration OK: chat_id=%d retry_period=%s http_timeout=%s\n",
		cfg.TelegramChatID, cfg.RetryPeriod, cfg.HTTPTimeout.Round(time.Second))
	return nil
}
