package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"qiitawatch/internal/adapter/tui"
	"qiitawatch/internal/config"
	"qiitawatch/internal/domain/ports"
	"qiitawatch/internal/usecase"
)

const watchRunTimeout = 2 * time.Minute

// App runs either the interactive browser or the scheduled article watcher.
type App struct {
	mode     config.Mode
	cron     *cron.Cron
	watch    *usecase.ArticleWatch
	screens  tui.Deps
	logger   ports.Logger
	schedule string
	runTUI   func(ctx context.Context, deps tui.Deps) error
}

// New constructs an App instance.
func New(cfg *config.Config, watch *usecase.ArticleWatch, screens tui.Deps, logger ports.Logger) (*App, error) {
	loc, err := time.LoadLocation(cfg.Watch.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Watch.Timezone, err)
	}
	return &App{
		mode:     cfg.Mode,
		cron:     cron.New(cron.WithLocation(loc)),
		watch:    watch,
		screens:  screens,
		logger:   logger,
		schedule: cfg.Watch.Schedule,
		runTUI:   tui.Run,
	}, nil
}

// Run blocks until ctx is done or, in TUI mode, until the user quits.
func (a *App) Run(ctx context.Context) error {
	if a.mode == config.ModeWatch {
		return a.runWatch(ctx)
	}
	a.logger.Info(ctx, "starting terminal browser")
	return a.runTUI(ctx, a.screens)
}

// runWatch executes the watch once immediately and then according to the cron schedule.
func (a *App) runWatch(ctx context.Context) error {
	if err := a.scheduleJob(); err != nil {
		return err
	}

	a.logger.Info(ctx, "running first article watch immediately")
	if err := a.runOnce(ctx); err != nil {
		a.logger.Error(ctx, "initial article watch failed", "error", err)
	}

	a.logger.Info(ctx, "starting scheduler", "cron", a.schedule)
	a.cron.Start()

	<-ctx.Done()
	stopCtx := a.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
	a.logger.Info(context.Background(), "scheduler stopped")
	return nil
}

func (a *App) runOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, watchRunTimeout)
	defer cancel()
	return a.watch.Run(ctx)
}

func (a *App) scheduleJob() error {
	_, err := a.cron.AddFunc(a.schedule, func() {
		if err := a.runOnce(context.Background()); err != nil {
			a.logger.Error(context.Background(), "scheduled article watch failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", a.schedule, err)
	}
	return nil
}
