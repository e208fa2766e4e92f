package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/dockside-market/internal/cache"
	"github.com/you/dockside-market/internal/domain"
	"github.com/you/dockside-market/internal/market"
)

type ListingHandler struct {
	svc   *market.Service
	cache *cache.Listings // optional
}

func NewListingHandler(svc *market.Service, c *cache.Listings) *ListingHandler {
	return &ListingHandler{svc: svc, cache: c}
}

func actor(c *gin.Context) market.Actor {
	return market.Actor{UserID: c.GetString("sub"), Role: domain.Role(c.GetString("role"))}
}

// GET /v1/ports
func (h *ListingHandler) Ports(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ports": cache.KnownPorts})
}

// GET /v1/listings?port=...
func (h *ListingHandler) List(c *gin.Context) {
	port := c.Query("port")
	if h.cache != nil {
		if cached, ok := h.cache.Get(c, port); ok {
			c.JSON(http.StatusOK, gin.H{"listings": cached, "cached": true})
			return
		}
	}
	out := h.svc.Listings(c, port)
	if h.cache != nil {
		h.cache.Set(c, port, out)
	}
	c.JSON(http.StatusOK, gin.H{"listings": out})
}

// POST /v1/listings (fisher)
func (h *ListingHandler) Create(c *gin.Context) {
	var in struct {
		Species    string  `json:"species" binding:"required"`
		Port       string  `json:"port" binding:"required"`
		PricePerKg float64 `json:"price_per_kg" binding:"required,gt=0"`
		QtyKg      float64 `json:"qty_kg" binding:"required,gt=0"`
		CaughtAt   string  `json:"caught_at"` // RFC3339, optional
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caughtAt := time.Now().UTC()
	if in.CaughtAt != "" {
		if t, err := time.Parse(time.RFC3339, in.CaughtAt); err == nil {
			caughtAt = t.UTC()
		}
	}
	l := h.svc.CreateListing(c, actor(c), domain.Listing{
		Species:    in.Species,
		Port:       in.Port,
		PricePerKg: in.PricePerKg,
		QtyKg:      in.QtyKg,
		CaughtAt:   caughtAt,
	})
	if l == nil {
		c.JSON(http.StatusAccepted, gin.H{"status": "ignored"})
		return
	}
	if h.cache != nil {
		h.cache.Invalidate(c, l.Port)
	}
	c.JSON(http.StatusCreated, l)
}
