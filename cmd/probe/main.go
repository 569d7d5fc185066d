package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"paintly-probe/internal/browser"
	"paintly-probe/internal/config"
	"paintly-probe/internal/document/pwdoc"
	"paintly-probe/internal/locator"
	"paintly-probe/internal/logger"
	"paintly-probe/internal/reporter"
	"paintly-probe/internal/scenario"
	"paintly-probe/internal/scheduler"
	"paintly-probe/internal/targets"
	"paintly-probe/utils"

	"github.com/playwright-community/playwright-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runOptions struct {
	scenarios   []string
	saveCookies bool
	timeout     time.Duration
	schedule    string
}

func main() {
	if err := command().Execute(); err != nil {
		var ec exitCode
		if errors.As(err, &ec) {
			os.Exit(int(ec))
		}
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(2)
	}
}

// exitCode carries a non-zero run status out of cobra.
type exitCode int

func (e exitCode) Error() string {
	return fmt.Sprintf("probe exited with code %d", int(e))
}

func command() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Run the Paintly UI probes in a real browser",
		Long: `Run the Paintly UI probes in a real browser.

Signs in, opens the configured customer page and checks the generation
history and comparison slider. Settings come from configs/config.yaml,
.env and PROBE_* variables. With a schedule the probes repeat until
interrupted.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
				return exitCode(2)
			}
			if opts.schedule != "" {
				cfg.Schedule = opts.schedule
			}

			log := logger.Must(cfg.Debug)
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var code int
			if cfg.Schedule == "" {
				code = run(ctx, cfg, log, opts)
			} else {
				code = runScheduled(ctx, cfg, log, opts)
			}
			if code != 0 {
				return exitCode(code)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&opts.scenarios, "scenarios", []string{"signin", "sidebar", "history", "slider"}, "scenarios to run, in order")
	cmd.Flags().BoolVar(&opts.saveCookies, "save-cookies", false, "write session cookies to cookies_path after signing in")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Minute, "timeout for one run")
	cmd.Flags().StringVar(&opts.schedule, "schedule", "", "cron schedule for repeated runs, overrides config")
	return cmd
}

// runScheduled probes once right away and then on every tick until a signal.
func runScheduled(ctx context.Context, cfg *config.Config, log *zap.Logger, opts runOptions) int {
	if _, err := selectScenarios(cfg, opts.scenarios); err != nil {
		log.Error("❌ Invalid scenarios", zap.Error(err))
		return 2
	}
	sched, err := scheduler.New(cfg.Timezone, opts.timeout, log)
	if err != nil {
		log.Error("❌ Invalid scheduler settings", zap.Error(err))
		return 2
	}

	job := func(ctx context.Context) error {
		if code := run(ctx, cfg, log, opts); code != 0 {
			return fmt.Errorf("probe run exited with code %d", code)
		}
		return nil
	}
	if err := sched.AddJob("probe", cfg.Schedule, job); err != nil {
		log.Error("❌ Invalid schedule", zap.Error(err))
		return 2
	}

	sched.RunNow(ctx, "probe", job)
	sched.Run(ctx)
	return 0
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, opts runOptions) int {
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	sum := scenario.NewSummary("Paintly probe " + cfg.BaseURL)
	log = log.With(zap.String("run_id", sum.RunID))

	log.Info("🚀 Starting Paintly probe", zap.String("base_url", cfg.BaseURL), zap.String("auth_mode", string(cfg.AuthMode)))

	scenarios, err := selectScenarios(cfg, opts.scenarios)
	if err != nil {
		log.Error("❌ Invalid scenarios", zap.Error(err))
		return 2
	}

	cat, err := targets.Load(cfg.TargetsPath, cfg.ScanLimit)
	if err != nil {
		log.Error("❌ Failed to load targets", zap.Error(err))
		return 2
	}

	var tg *reporter.TelegramReporter
	if cfg.HasTelegram() {
		if tg, err = reporter.NewTelegramReporter(cfg); err != nil {
			log.Warn("⚠️ Telegram disabled", zap.Error(err))
		} else {
			log.Info("🤖 Telegram reporter initialized")
		}
	}

	shots, err := utils.NewScreenShotDebugger(cfg.ScreenshotDir, log)
	if err != nil {
		log.Error("❌ Failed to prepare screenshots", zap.Error(err))
		return 1
	}

	pwManager, err := browser.NewPlaywright(ctx, browser.OptionsFromConfig(cfg), log)
	if err != nil {
		log.Error("❌ Failed to init Playwright", zap.Error(err))
		notifyError(tg, log, err)
		return 1
	}
	defer pwManager.Close()

	var cookies []playwright.OptionalCookie
	if cfg.AuthMode == config.AuthCookies {
		if cookies, err = browser.LoadCookies(cfg.CookiesPath); err != nil {
			log.Error("❌ Could not load cookies", zap.String("path", cfg.CookiesPath), zap.Error(err))
			return 1
		}
	}

	browserCtx, err := pwManager.NewContext(cookies)
	if err != nil {
		log.Error("❌ Failed to create browser context", zap.Error(err))
		return 1
	}
	page, err := browserCtx.NewPage()
	if err != nil {
		log.Error("❌ Failed to create new page", zap.Error(err))
		return 1
	}
	console := browser.WatchConsole(page, log)
	log.Info("✅ Browser initialized successfully!")

	env := &scenario.Env{
		Page:    scenario.NewLivePage(page, docOptions(cfg), shots, log),
		Locator: locator.New(log),
		Targets: cat,
		Config:  cfg,
		Summary: sum,
		Logger:  log,
	}

	runErr := scenario.RunAll(ctx, env, scenarios...)

	if errs := console.Errors(); len(errs) > 0 {
		sum.Info("browser", "console errors", fmt.Sprintf("%d, first: %s", len(errs), errs[0]))
	}

	if opts.saveCookies && runErr == nil {
		path := cfg.CookiesPath
		if path == "" {
			path = ".cookies/cookies-paintly.json"
		}
		if n, err := browser.SaveCookies(browserCtx, path); err != nil {
			log.Warn("⚠️ Could not save cookies", zap.Error(err))
		} else {
			log.Info("🍪 Saved cookies", zap.Int("count", n), zap.String("path", path))
		}
	}

	fmt.Print(sum.Text())
	if tg != nil {
		if err := tg.SendSummary(sum); err != nil {
			log.Warn("⚠️ Failed to send summary", zap.Error(err))
		}
	}

	switch {
	case runErr != nil && !errors.Is(runErr, context.Canceled):
		return 1
	case sum.Failed():
		return 1
	}
	return 0
}

// docOptions maps configured waits onto the live document adapter. Zero
// config values keep the adapter defaults.
func docOptions(cfg *config.Config) pwdoc.Options {
	opts := pwdoc.DefaultOptions()
	if cfg.VisibleTimeoutMs > 0 {
		opts.VisibleTimeout = time.Duration(cfg.VisibleTimeoutMs) * time.Millisecond
	}
	if cfg.ActionTimeoutMs > 0 {
		opts.ActionTimeout = time.Duration(cfg.ActionTimeoutMs) * time.Millisecond
	}
	return opts
}

func selectScenarios(cfg *config.Config, names []string) ([]scenario.Scenario, error) {
	var out []scenario.Scenario
	for _, name := range names {
		switch strings.TrimSpace(name) {
		case "signin":
			out = append(out, scenario.NewSignIn(cfg))
		case "sidebar":
			out = append(out, scenario.Sidebar{})
		case "history":
			out = append(out, scenario.History{})
		case "slider":
			out = append(out, scenario.Slider{})
		case "":
		default:
			return nil, fmt.Errorf("unknown scenario %q", name)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no scenarios selected")
	}
	return out, nil
}

func notifyError(tg *reporter.TelegramReporter, log *zap.Logger, err error) {
	if tg == nil {
		return
	}
	if sendErr := tg.SendError(err); sendErr != nil {
		log.Warn("⚠️ Failed to send error", zap.Error(sendErr))
	}
}
