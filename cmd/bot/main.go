package main

import (
	"context"
	"log"

	"github.com/m3rciful/shopbot/core/bootstrap"
	"github.com/m3rciful/shopbot/core/buildinfo"
	corecmd "github.com/m3rciful/shopbot/core/cmd"
	coreconfig "github.com/m3rciful/shopbot/core/config"
	"github.com/m3rciful/shopbot/core/conversation"
	"github.com/m3rciful/shopbot/core/funnel"
	coretelegram "github.com/m3rciful/shopbot/core/telegram"
	"github.com/m3rciful/shopbot/core/telegram/router"
)

func main() {
	log.Printf("shopbot %s (%s, built %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date)

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		Bootstrap:         buildRunOptions,
	})
	if err != nil {
		log.Fatalf("shopbot: %v", err)
	}
}

func buildRunOptions(ctx context.Context, cfg *coreconfig.Config) (coretelegram.RunOptions, error) {
	infra, err := bootstrap.Run(ctx, bootstrap.Options{Config: cfg})
	if err != nil {
		return coretelegram.RunOptions{}, err
	}

	store := conversation.NewSQLStore(infra.DB, infra.Catalog)
	engine := conversation.NewEngine(store, infra.Catalog, infra.Snapshot)
	fn := funnel.New(engine)

	reg := coretelegram.NewRegistry()
	funnel.RegisterCommands(reg, fn, infra.Snapshot)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: cfg.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(reg, router.TextOptions{})...)

	return coretelegram.RunOptions{
		Config:      cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(cfg, nil),
		Routes:      routes,
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			return infra.DB.Close()
		},
	}, nil
}
