package V1

import (
	_ "englishtalk/docs"
	"englishtalk/domain"
	"englishtalk/hander"
	"englishtalk/hander/midwire"
	"englishtalk/pkg/log"
	"englishtalk/serve"
	"englishtalk/usecase"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"
)

// each browser may open a burst of sessions, then one per second
const (
	createEvery = time.Second
	createBurst = 10
)

type SessionHander struct {
	*hander.BaseHandler
	logger    *log.Logger
	sessions  *usecase.SessionUsecase
	wsusecase *usecase.WsUseCase
}

func NewSessionHander(s *serve.HttpServer, base *hander.BaseHandler, logger *log.Logger, sessions *usecase.SessionUsecase, ws *usecase.WsUseCase) *SessionHander {
	g := s.Echo.Group("/v1")
	g.GET("/swagger/*", echoSwagger.WrapHandler)

	h := &SessionHander{
		BaseHandler: base,
		logger:      logger.WithModule("SessionHander"),
		sessions:    sessions,
		wsusecase:   ws,
	}
	g.POST("/sessions", h.Create, midwire.RateLimit(midwire.NewRateLimiter(rate.Every(createEvery), createBurst)))

	sg := g.Group("/sessions/:id", midwire.Session(sessions))
	sg.GET("", h.Get)
	sg.DELETE("", h.Delete)
	sg.PUT("/screen", h.Navigate)
	sg.PUT("/topic", h.SelectTopic)
	sg.PUT("/level", h.SelectLevel)
	sg.PUT("/teacher", h.SelectTeacher)
	sg.POST("/chat", h.StartChat)
	sg.POST("/reset", h.Reset)
	sg.POST("/turns", h.SubmitText)
	sg.POST("/capture", h.StartCapture)
	sg.GET("/ws", h.UpgradeToWS)
	return h
}

// Create godoc
// @Summary Create a practice session
// @Tags Session
// @Produce json
// @Success 200 {object} domain.SessionSnapshot
// @Router /v1/sessions [post]
func (h *SessionHander) Create(c echo.Context) error {
	ctrl, err := h.sessions.Create(c.Request().Context())
	if err != nil {
		return h.NewResponseWithError(c, "Failed to create session", err)
	}
	return h.snapshot(c, ctrl)
}

// Get godoc
// @Summary Get the session state
// @Tags Session
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} domain.SessionSnapshot
// @Failure 404 {object} hander.Response
// @Router /v1/sessions/{id} [get]
func (h *SessionHander) Get(c echo.Context) error {
	return h.snapshot(c, midwire.GetSession(c))
}

// Delete godoc
// @Summary End a session
// @Tags Session
// @Param id path string true "Session id"
// @Success 200 {object} hander.Response
// @Router /v1/sessions/{id} [delete]
func (h *SessionHander) Delete(c echo.Context) error {
	if err := h.sessions.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.NewResponseWithError(c, "Failed to delete session", err)
	}
	return h.NewResponseWithData(c, "Session deleted")
}

// Navigate godoc
// @Summary Switch screens. Going home clears the conversation.
// @Tags Session
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param req body domain.NavigateReq true "Screen"
// @Success 200 {object} domain.SessionSnapshot
// @Router /v1/sessions/{id}/screen [put]
func (h *SessionHander) Navigate(c echo.Context) error {
	var req domain.NavigateReq
	if err := c.Bind(&req); err != nil {
		return h.NewResponseWithError(c, "Invalid request", err)
	}
	ctrl := midwire.GetSession(c)
	if err := ctrl.Navigate(req.Screen); err != nil {
		return h.NewResponseWithError(c, "Failed to navigate", err)
	}
	return h.snapshot(c, ctrl)
}

// SelectTopic godoc
// @Summary Pick the conversation topic
// @Tags Session
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param req body domain.SelectTopicReq true "Topic"
// @Success 200 {object} domain.SessionSnapshot
// @Router /v1/sessions/{id}/topic [put]
func (h *SessionHander) SelectTopic(c echo.Context) error {
	var req domain.SelectTopicReq
	if err := c.Bind(&req); err != nil {
		return h.NewResponseWithError(c, "Invalid request", err)
	}
	ctrl := midwire.GetSession(c)
	if err := ctrl.SelectTopic(req.Topic); err != nil {
		return h.NewResponseWithError(c, "Failed to select topic", err)
	}
	return h.snapshot(c, ctrl)
}

// SelectLevel godoc
// @Summary Pick the student level
// @Tags Session
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param req body domain.SelectLevelReq true "Level"
// @Success 200 {object} domain.SessionSnapshot
// @Router /v1/sessions/{id}/level [put]
func (h *SessionHander) SelectLevel(c echo.Context) error {
	var req domain.SelectLevelReq
	if err := c.Bind(&req); err != nil {
		return h.NewResponseWithError(c, "Invalid request", err)
	}
	ctrl := midwire.GetSession(c)
	if err := ctrl.SelectLevel(req.Level); err != nil {
		return h.NewResponseWithError(c, "Failed to select level", err)
	}
	return h.snapshot(c, ctrl)
}

// SelectTeacher godoc
// @Summary Pick the teacher persona
// @Tags Session
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param req body domain.SelectTeacherReq true "Teacher"
// @Success 200 {object} domain.SessionSnapshot
// @Router /v1/sessions/{id}/teacher [put]
func (h *SessionHander) SelectTeacher(c echo.Context) error {
	var req domain.SelectTeacherReq
	if err := c.Bind(&req); err != nil {
		return h.NewResponseWithError(c, "Invalid request", err)
	}
	ctrl := midwire.GetSession(c)
	if err := ctrl.SelectTeacher(req.Teacher); err != nil {
		return h.NewResponseWithError(c, "Failed to select teacher", err)
	}
	return h.snapshot(c, ctrl)
}

// StartChat godoc
// @Summary Open the chat screen and let the teacher speak first
// @Tags Turn
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} domain.SessionSnapshot
// @Router /v1/sessions/{id}/chat [post]
func (h *SessionHander) StartChat(c echo.Context) error {
	ctrl := midwire.GetSession(c)
	if err := ctrl.StartChat(); err != nil {
		return h.NewResponseWithError(c, "Failed to start chat", err)
	}
	return h.snapshot(c, ctrl)
}

// Reset godoc
// @Summary Clear the conversation
// @Tags Turn
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} domain.SessionSnapshot
// @Router /v1/sessions/{id}/reset [post]
func (h *SessionHander) Reset(c echo.Context) error {
	ctrl := midwire.GetSession(c)
	if err := ctrl.Reset(); err != nil {
		return h.NewResponseWithError(c, "Failed to reset", err)
	}
	return h.snapshot(c, ctrl)
}

// SubmitText godoc
// @Summary Send a typed utterance as a turn
// @Description The reply arrives asynchronously; poll the session or listen on the websocket.
// @Tags Turn
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param req body domain.SubmitTextReq true "Utterance"
// @Success 200 {object} domain.SessionSnapshot
// @Failure 409 {object} hander.Response
// @Router /v1/sessions/{id}/turns [post]
func (h *SessionHander) SubmitText(c echo.Context) error {
	var req domain.SubmitTextReq
	if err := c.Bind(&req); err != nil {
		return h.NewResponseWithError(c, "Invalid request", err)
	}
	ctrl := midwire.GetSession(c)
	if err := ctrl.SubmitText(req.Text); err != nil {
		return h.NewResponseWithError(c, "Failed to submit turn", err)
	}
	return h.snapshot(c, ctrl)
}

// StartCapture godoc
// @Summary Start listening on the attached browser
// @Tags Turn
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} domain.SessionSnapshot
// @Failure 409 {object} hander.Response
// @Failure 503 {object} hander.Response
// @Router /v1/sessions/{id}/capture [post]
func (h *SessionHander) StartCapture(c echo.Context) error {
	ctrl := midwire.GetSession(c)
	if err := ctrl.StartCapture(); err != nil {
		return h.NewResponseWithError(c, "Failed to start capture", err)
	}
	return h.snapshot(c, ctrl)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // 开发阶段放行全部来源
}

// UpgradeToWS godoc
// @Summary 升级为 WebSocket 语音通道
// @Description 浏览器负责识别和合成，服务端下发 listen / speak 指令
// @Tags Session
// @Param id path string true "Session id"
// @Success 101 {string} string "Switching Protocols"
// @Router /v1/sessions/{id}/ws [get]
func (h *SessionHander) UpgradeToWS(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()
	if err := h.wsusecase.HanderWs(ws, midwire.GetSession(c)); err != nil {
		h.logger.Warn("ws closed with error", log.Error(err))
	}
	return nil
}

func (h *SessionHander) snapshot(c echo.Context, ctrl *usecase.Controller) error {
	snap, err := ctrl.Snapshot()
	if err != nil {
		return h.NewResponseWithError(c, "Failed to read session", err)
	}
	return h.NewResponseWithData(c, snap)
}
