package serve

import (
	"englishtalk/pkg/log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type HttpServer struct {
	Echo *echo.Echo
}

func NewHttpServer(l *log.Logger) *HttpServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	logger := l.WithModule("http")
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Warn("request",
					log.String("method", v.Method),
					log.String("uri", v.URI),
					log.Int("status", v.Status),
					log.Duration("latency", v.Latency),
					log.Error(v.Error),
				)
				return nil
			}
			logger.Info("request",
				log.String("method", v.Method),
				log.String("uri", v.URI),
				log.Int("status", v.Status),
				log.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	return &HttpServer{
		Echo: e,
	}
}
