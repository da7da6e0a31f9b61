package midwire

import (
	"englishtalk/hander"
	"englishtalk/usecase"
	"net/http"

	"github.com/labstack/echo/v4"
)

const sessionKey = "session"

// Session 把 :id 解析成在线的会话，找不到就 404
func Session(sessions *usecase.SessionUsecase) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctrl, err := sessions.Get(c.Request().Context(), c.Param("id"))
			if err != nil {
				return c.JSON(http.StatusNotFound, hander.Response{Success: false, Message: err.Error()})
			}
			c.Set(sessionKey, ctrl)
			return next(c)
		}
	}
}

// GetSession returns the controller resolved by Session.
func GetSession(c echo.Context) *usecase.Controller {
	ctrl, _ := c.Get(sessionKey).(*usecase.Controller)
	return ctrl
}
