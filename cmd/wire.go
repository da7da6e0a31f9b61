//go:build wireinject
// +build wireinject

package main

import (
	"englishtalk/config"
	V1 "englishtalk/hander/v1"
	"englishtalk/pkg/log"
	"englishtalk/serve"
	"englishtalk/usecase"

	"github.com/google/wire"
)

type App struct {
	Service  *serve.HttpServer
	config   *config.Config
	logger   *log.Logger
	handers  *V1.Handers
	sessions *usecase.SessionUsecase
}

func InitializeApp() (*App, error) {
	wire.Build(
		wire.Struct(new(App), "*"),
		wire.NewSet(
			serve.NewHttpServer,
			config.NewConfig,
			log.ProviderSet,
			V1.ProviderSet,
		),
	)
	return &App{}, nil
}
