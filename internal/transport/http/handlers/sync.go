package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/dockside-market/internal/market"
)

type SyncHandler struct {
	svc *market.Service
}

func NewSyncHandler(svc *market.Service) *SyncHandler {
	return &SyncHandler{svc: svc}
}

// GET /v1/sync/status
func (h *SyncHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"online":  h.svc.Online(),
		"pending": h.svc.PendingActions(c),
	})
}

// POST /v1/sync/flush (manual trigger)
func (h *SyncHandler) Flush(c *gin.Context) {
	n := h.svc.Flush(c)
	c.JSON(http.StatusOK, gin.H{"flushed": n})
}

// GET /v1/sync/history
func (h *SyncHandler) History(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": h.svc.SyncHistory(c)})
}
