package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dmelnik/roomcast/internal/core"
)

// APIHandlers provides HTTP handlers for the read-only REST surface.
type APIHandlers struct {
	reg *core.Registry
	log *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(reg *core.Registry, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{reg: reg, log: logger}
}

// RoomsResponse lists the current room directory.
type RoomsResponse struct {
	Rooms []core.RoomInfo `json:"rooms"`
}

// StatsResponse summarizes the registry's session counts.
type StatsResponse struct {
	Active  int `json:"active"`
	Pending int `json:"pending"`
	Rooms   int `json:"rooms"`
}

// ListRooms handles GET /api/rooms.
func (h *APIHandlers) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, RoomsResponse{Rooms: h.reg.Rooms()})
}

// Stats handles GET /api/stats.
func (h *APIHandlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, StatsResponse{
		Active:  h.reg.ActiveCount(),
		Pending: h.reg.PendingCount(),
		Rooms:   len(h.reg.Rooms()),
	})
}
