package V1

import (
	"englishtalk/config"
	"englishtalk/hander"
	"englishtalk/serve"
	"englishtalk/usecase"
	"net/http"

	"github.com/labstack/echo/v4"
)

type HealthHander struct {
	*hander.BaseHandler
	config   *config.Config
	sessions *usecase.SessionUsecase
}

func NewHealthHander(s *serve.HttpServer, base *hander.BaseHandler, c *config.Config, sessions *usecase.SessionUsecase) *HealthHander {
	h := &HealthHander{BaseHandler: base, config: c, sessions: sessions}
	g := s.Echo.Group("/v1")
	g.GET("/healthz", h.Health)
	s.Echo.GET("/", Index)
	return h
}

// Health godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} hander.Response
// @Router /v1/healthz [get]
func (h *HealthHander) Health(c echo.Context) error {
	return h.NewResponseWithData(c, map[string]any{
		"name":     h.config.ServeName,
		"provider": h.config.Dialogue.Provider,
		"sessions": h.sessions.Len(),
	})
}

func Index(c echo.Context) error {
	return c.HTML(http.StatusOK, index)
}
