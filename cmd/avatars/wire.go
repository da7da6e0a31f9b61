//go:build wireinject
// +build wireinject

package main

import (
	"englishtalk/config"
	"englishtalk/pkg/log"
	"englishtalk/usecase"

	"github.com/google/wire"
)

type App struct {
	avatars *usecase.AvatarUsecase
	config  *config.Config
	logger  *log.Logger
}

func InitializeApp() (*App, error) {
	wire.Build(
		wire.Struct(new(App), "*"),
		wire.NewSet(
			config.NewConfig,
			newStderrLogger,
			usecase.AvatarSet,
		),
	)
	return &App{}, nil
}
