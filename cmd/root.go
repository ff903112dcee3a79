package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/raidplan/app"
	"github.com/kilianp07/raidplan/config"
	"github.com/kilianp07/raidplan/core/model"
	coremon "github.com/kilianp07/raidplan/core/monitoring"
	"github.com/kilianp07/raidplan/infra/logger"
	"github.com/kilianp07/raidplan/infra/monitoring"
)

var (
	cfgPath    string
	jsonOutput bool
	modeFlag   string
)

var rootCmd = &cobra.Command{
	Use:           "raidplan",
	Short:         "Raid roster scheduler",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")
}

// Execute runs the CLI. Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer coremon.Flush(2 * time.Second)
	defer coremon.Recover()
	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err != nil && cmd != nil {
		coremon.CaptureException(err, map[string]string{"command": cmd.Name()})
	}
	return err
}

// addModeFlag registers --mode on commands that build a schedule.
func addModeFlag(c *cobra.Command) {
	c.Flags().StringVarP(&modeFlag, "mode", "m", "", "balance mode: overall, role or speed (default from config)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return nil, err
	}
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, err
	}
	coremon.Init(mon)
	return cfg, nil
}

func balanceMode(cfg *config.Config) (model.BalanceMode, error) {
	if modeFlag == "" {
		return cfg.Planner.Mode(), nil
	}
	return model.ParseBalanceMode(modeFlag)
}

// withService loads the configuration, runs fn against a fresh Service and
// pushes metrics before closing it.
func withService(ctx context.Context, fn func(*app.Service, *config.Config) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	if err := fn(svc, cfg); err != nil {
		return err
	}
	if err := svc.Push(ctx); err != nil {
		logger.New("main").Warnf("%v", err)
	}
	return nil
}
