package api

import (
	"github.com/labstack/echo/v4"

	models "FlowShift/internal/domain/models"
	"FlowShift/internal/usecase"
	xhttp "FlowShift/pkg/http"
	xlogger "FlowShift/pkg/logger"
)

// SessionHandler exposes per-view state and the strategy chat.
type SessionHandler struct {
	logger   *xlogger.Logger
	sessions *usecase.SessionService
	limit    echo.MiddlewareFunc
}

// NewSessionHandler wires the handler. limit guards the advisor routes and may be nil.
func NewSessionHandler(logger *xlogger.Logger, sessions *usecase.SessionService, limit echo.MiddlewareFunc) *SessionHandler {
	return &SessionHandler{logger: logger, sessions: sessions, limit: limit}
}

func (h *SessionHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/sessions")
	g.POST("", h.Create)
	g.GET("/:id/config", h.GetConfig)
	g.PUT("/:id/config", h.UpdateConfig)
	g.GET("/:id/series", h.Series)
	g.GET("/:id/messages", h.Messages)
	g.DELETE("/:id", h.End)

	var mw []echo.MiddlewareFunc
	if h.limit != nil {
		mw = append(mw, h.limit)
	}
	g.POST("/:id/analyze", h.Analyze, mw...)
	g.POST("/:id/chat", h.Chat, mw...)
}

func (h *SessionHandler) fail(c echo.Context, op string, err error) error {
	appErr := toAppError(err)
	if appErr.Status >= 500 {
		h.logger.Error(op+" usecase error", xlogger.Error(err), xlogger.String("session_id", c.Param("id")))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

func (h *SessionHandler) Create(c echo.Context) error {
	sess, err := h.sessions.CreateSession(c.Request().Context())
	if err != nil {
		return h.fail(c, "create session", err)
	}
	return xhttp.CreatedResponse(c, sess)
}

func (h *SessionHandler) GetConfig(c echo.Context) error {
	cfg, err := h.sessions.Config(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, "get config", err)
	}
	return xhttp.SuccessResponse(c, cfg)
}

func (h *SessionHandler) UpdateConfig(c echo.Context) error {
	req := &models.UpdateConfigRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	sess, err := h.sessions.UpdateConfig(c.Request().Context(), c.Param("id"), req.Config())
	if err != nil {
		return h.fail(c, "update config", err)
	}
	return xhttp.SuccessResponse(c, sess)
}

func (h *SessionHandler) Series(c echo.Context) error {
	series, err := h.sessions.Series(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, "series", err)
	}
	return xhttp.SuccessResponse(c, series)
}

func (h *SessionHandler) Messages(c echo.Context) error {
	msgs, err := h.sessions.Messages(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, "messages", err)
	}
	return xhttp.ListResponse(c, msgs, int64(len(msgs)))
}

func (h *SessionHandler) Analyze(c echo.Context) error {
	msg, err := h.sessions.Analyze(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, "analyze", err)
	}
	return xhttp.SuccessResponse(c, msg)
}

func (h *SessionHandler) Chat(c echo.Context) error {
	req := &models.ChatRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	msg, err := h.sessions.Chat(c.Request().Context(), c.Param("id"), req.Message)
	if err != nil {
		return h.fail(c, "chat", err)
	}
	return xhttp.SuccessResponse(c, msg)
}

func (h *SessionHandler) End(c echo.Context) error {
	if err := h.sessions.EndSession(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, "end session", err)
	}
	return xhttp.NoContentResponse(c)
}
