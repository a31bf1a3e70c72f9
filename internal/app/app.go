package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/trackbot/core/bootstrap"
	coretelegram "github.com/m3rciful/trackbot/core/telegram"
	"github.com/m3rciful/trackbot/core/telegram/router"
	"github.com/m3rciful/trackbot/core/telegram/state"
	"github.com/m3rciful/trackbot/internal/bot"
	"github.com/m3rciful/trackbot/internal/config"
	"github.com/m3rciful/trackbot/internal/repository"
	"github.com/m3rciful/trackbot/internal/service"
)

// App holds the assembled application: infrastructure from the bootstrap
// pipeline plus the wired handler set.
type App struct {
	cfg      *config.Config
	db       *sqlx.DB
	fsm      state.Manager
	handlers *bot.Handlers
}

// New runs the bootstrap pipeline (logger, database, migrations) and wires
// repositories, services, the session manager, and the bot handlers.
func New(cfg *config.Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	orders := service.NewOrders(repository.NewOrders(res.DB))
	statuses := service.NewStatuses(repository.NewStatusRanges(res.DB))

	fsm := state.NewMemoryManager()
	handlers := bot.New(cfg.Core.Telegram.AdminID, fsm, orders, statuses)
	handlers.RegisterFSM()

	return &App{
		cfg:      cfg,
		db:       res.DB,
		fsm:      fsm,
		handlers: handlers,
	}, nil
}

// TelegramRunOptions builds the bot runtime: registry, routed handlers, and
// the shared middleware chain.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	if err := a.handlers.Register(reg); err != nil {
		return coretelegram.RunOptions{}, fmt.Errorf("app: handler registration failed: %w", err)
	}

	adminID := a.cfg.Core.Telegram.AdminID
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID:       adminID,
		OnAdminReject: a.handlers.AdminReject,
	})
	routes = append(routes, router.TextRoutes(a.fsm, reg, router.TextOptions{
		AdminID:         adminID,
		OnAdminReject:   a.handlers.AdminReject,
		UnknownText:     a.handlers.UnknownText(),
		UnknownDocument: a.handlers.UnknownDocument(),
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{
		NotFound: a.handlers.UnknownCallback(),
	}))

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStop: func(context.Context, coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
