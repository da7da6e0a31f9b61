package main

import (
	"context"
	"englishtalk/pkg/log"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app, err := InitializeApp()
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info("server starting", log.String("name", app.config.ServeName), log.String("port", app.config.Port))
		if err := app.Service.Echo.Start(app.config.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return app.sessions.RunSweeper(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := app.Service.Echo.Shutdown(shutdownCtx)
		if cerr := app.sessions.Close(); err == nil {
			err = cerr
		}
		app.logger.Info("server stopped")
		return err
	})

	if err := g.Wait(); err != nil {
		app.logger.Error("server exited with error", log.Error(err))
		os.Exit(1)
	}
}
