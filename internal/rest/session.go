package rest

import (
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pobyzaarif/goshortcute"
)

type ResponseError struct {
	Message string `json:"message"`
}

type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

type SessionResponse struct {
	SessionToken string `json:"session_token"`
}

// CreateSession mints an opaque token for anonymous browsing. The token is
// the caller's identity until they log in; no server-side state is kept.
func (h *SessionHandler) CreateSession(c echo.Context) error {
	token := goshortcute.StringtoBase64Encode(uuid.NewString())

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(SessionResponse{
		SessionToken: token,
	}))
}
