//go:build wireinject
// +build wireinject

package main

import (
	"englishtalk/config"
	"englishtalk/pkg/log"
	"englishtalk/pkg/store"

	"github.com/google/wire"
)

type App struct {
	db     *store.MySQL
	config *config.Config
	logger *log.Logger
}

func InitializeApp() (*App, error) {
	wire.Build(
		wire.Struct(new(App), "*"),
		wire.NewSet(
			store.NewMySQL,
			config.NewConfig,
			log.ProviderSet,
		),
	)
	return &App{}, nil
}
