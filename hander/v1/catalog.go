package V1

import (
	"englishtalk/domain"
	"englishtalk/hander"
	"englishtalk/pkg/log"
	"englishtalk/serve"
	"englishtalk/usecase"

	"github.com/labstack/echo/v4"
)

type CatalogHander struct {
	*hander.BaseHandler

	log            *log.Logger
	catalogUsecase *usecase.CatalogUsecase
}

func NewCatalogHander(s *serve.HttpServer, log *log.Logger, base *hander.BaseHandler, catalogUsecase *usecase.CatalogUsecase) *CatalogHander {
	r := &CatalogHander{
		BaseHandler:    base,
		log:            log.WithModule("CatalogHander"),
		catalogUsecase: catalogUsecase,
	}
	g := s.Echo.Group("/v1/catalog")
	g.GET("", r.GetCatalog)
	g.GET("/teachers/:id", r.GetTeacher)
	g.DELETE("/teachers/:id/avatar", r.ResetAvatar)
	g.GET("/topics/:id", r.GetTopic)
	g.GET("/levels/:id", r.GetLevel)
	return r
}

// GetCatalog lists teachers, topics and levels
// @Summary lists teachers, topics and levels
// @Description teachers carry the avatar reference and voice gender
// @Tags Catalog
// @Produce json
// @Success 200 {object} domain.Catalog
// @Router /v1/catalog [get]
func (h *CatalogHander) GetCatalog(c echo.Context) error {
	return h.NewResponseWithData(c, h.catalogUsecase.Catalog(c.Request().Context()))
}

// GetTeacher godoc
// @Summary Get one teacher
// @Tags Catalog
// @Produce json
// @Param id path string true "teacher id"
// @Success 200 {object} domain.TeacherProfile
// @Failure 400 {object} hander.Response
// @Router /v1/catalog/teachers/{id} [get]
func (h *CatalogHander) GetTeacher(c echo.Context) error {
	t, err := h.catalogUsecase.Teacher(c.Request().Context(), domain.TeacherID(c.Param("id")))
	if err != nil {
		return h.NewResponseWithError(c, "Failed to get teacher", err)
	}
	return h.NewResponseWithData(c, t)
}

// ResetAvatar godoc
// @Summary Drop the generated avatar of a teacher
// @Description the built-in avatar is served again afterwards
// @Tags Catalog
// @Produce json
// @Param id path string true "teacher id"
// @Success 200 {object} domain.TeacherProfile
// @Failure 404 {object} hander.Response
// @Failure 503 {object} hander.Response
// @Router /v1/catalog/teachers/{id}/avatar [delete]
func (h *CatalogHander) ResetAvatar(c echo.Context) error {
	ctx := c.Request().Context()
	id := domain.TeacherID(c.Param("id"))
	if err := h.catalogUsecase.ResetAvatar(ctx, id); err != nil {
		return h.NewResponseWithError(c, "Failed to reset avatar", err)
	}
	t, err := h.catalogUsecase.Teacher(ctx, id)
	if err != nil {
		return h.NewResponseWithError(c, "Failed to get teacher", err)
	}
	return h.NewResponseWithData(c, t)
}

// GetTopic godoc
// @Summary Get one topic
// @Tags Catalog
// @Produce json
// @Param id path string true "topic id"
// @Success 200 {object} domain.TopicProfile
// @Router /v1/catalog/topics/{id} [get]
func (h *CatalogHander) GetTopic(c echo.Context) error {
	t, err := h.catalogUsecase.Topic(domain.TopicID(c.Param("id")))
	if err != nil {
		return h.NewResponseWithError(c, "Failed to get topic", err)
	}
	return h.NewResponseWithData(c, t)
}

// GetLevel godoc
// @Summary Get one level
// @Tags Catalog
// @Produce json
// @Param id path string true "level id"
// @Success 200 {object} domain.LevelProfile
// @Router /v1/catalog/levels/{id} [get]
func (h *CatalogHander) GetLevel(c echo.Context) error {
	l, err := h.catalogUsecase.Level(domain.LevelID(c.Param("id")))
	if err != nil {
		return h.NewResponseWithError(c, "Failed to get level", err)
	}
	return h.NewResponseWithData(c, l)
}
