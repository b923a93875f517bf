package controllers

import (
	"net/http"
	"strings"

	"github.com/amorty/cafe-admin/live"
	"github.com/amorty/cafe-admin/metrics"
	"github.com/amorty/cafe-admin/middlewares"
	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type LiveController struct {
	Hub      *live.Hub
	upgrader websocket.Upgrader
}

// NewLiveController accepts websocket handshakes from allowedOrigin, or from
// anywhere when it is "*" or empty.
func NewLiveController(hub *live.Hub, allowedOrigin string) *LiveController {
	return &LiveController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return strings.EqualFold(r.Header.Get("Origin"), allowedOrigin)
			},
		},
	}
}

// Connect upgrades the request and streams record changes until the client
// goes away.
func (lc *LiveController) Connect(c *gin.Context) {
	actor, ok := middlewares.CurrentActor(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, models.ErrMissingToken)
		return
	}

	ws, err := lc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Websocket upgrade failed: %v", err)
		return
	}

	lc.Hub.Register(ws, live.Client{Actor: actor})
	metrics.LiveClientConnected()
	defer func() {
		lc.Hub.Unregister(ws)
		metrics.LiveClientDisconnected()
	}()

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}
