package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/dockside-market/internal/domain"
	"github.com/you/dockside-market/internal/market"
)

type ReservationHandler struct {
	svc *market.Service
}

func NewReservationHandler(svc *market.Service) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

// respond mirrors the orchestrator's silent no-op policy: an ignored
// transition still answers 202 with the current state.
func respond(c *gin.Context, r *domain.Reservation) {
	if r == nil {
		c.JSON(http.StatusAccepted, gin.H{"status": "ignored"})
		return
	}
	c.JSON(http.StatusOK, r)
}

// POST /v1/checkout (buyer)
func (h *ReservationHandler) Checkout(c *gin.Context) {
	var in struct {
		Lines []struct {
			ListingID  string  `json:"listing_id" binding:"required"`
			QtyKg      float64 `json:"qty_kg" binding:"required"`
			PricePerKg float64 `json:"price_per_kg" binding:"required"`
		} `json:"lines" binding:"required,min=1"`
		PickupISO string `json:"pickup_iso" binding:"required"` // RFC3339
		Note      string `json:"note"`
		CardToken string `json:"card_token"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pickup, err := time.Parse(time.RFC3339, in.PickupISO)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pickup_iso must be RFC3339"})
		return
	}
	lines := make([]domain.CartLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, domain.CartLine{ListingID: l.ListingID, QtyKg: l.QtyKg, PricePerKg: l.PricePerKg})
	}
	created := h.svc.Checkout(c, actor(c), market.CheckoutInput{
		Lines:      lines,
		PickupTime: pickup.UTC(),
		Note:       in.Note,
		CardToken:  in.CardToken,
	})
	if len(created) == 0 {
		c.JSON(http.StatusAccepted, gin.H{"status": "ignored"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"checkout_id": created[0].CheckoutID, "reservations": created})
}

// GET /v1/reservations
func (h *ReservationHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"reservations": h.svc.Reservations(c, actor(c))})
}

// GET /v1/reservations/:id
func (h *ReservationHandler) Get(c *gin.Context) {
	r := h.svc.Reservation(c, c.Param("id"))
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, r)
}

// POST /v1/reservations/:id/confirm (fisher)
func (h *ReservationHandler) Confirm(c *gin.Context) {
	respond(c, h.svc.Confirm(c, actor(c), c.Param("id")))
}

// POST /v1/reservations/:id/reject (fisher)
func (h *ReservationHandler) Reject(c *gin.Context) {
	respond(c, h.svc.Reject(c, actor(c), c.Param("id")))
}

// POST /v1/reservations/:id/pickup (fisher)
func (h *ReservationHandler) Pickup(c *gin.Context) {
	respond(c, h.svc.MarkPickedUp(c, actor(c), c.Param("id")))
}

// POST /v1/reservations/:id/delivery (fisher)
func (h *ReservationHandler) Delivery(c *gin.Context) {
	var in struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	respond(c, h.svc.AdvanceDelivery(c, actor(c), c.Param("id"), domain.DeliveryStatus(in.Status)))
}

// POST /v1/reservations/:id/conformity (buyer)
func (h *ReservationHandler) Conformity(c *gin.Context) {
	var in struct {
		Conform *bool  `json:"conform" binding:"required"`
		Note    string `json:"note"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	respond(c, h.svc.SetConformity(c, actor(c), c.Param("id"), *in.Conform, in.Note))
}

// POST /v1/reservations/:id/release (buyer)
func (h *ReservationHandler) Release(c *gin.Context) {
	respond(c, h.svc.ReleaseEscrow(c, actor(c), c.Param("id")))
}

// POST /v1/reservations/:id/arrival/request (buyer)
func (h *ReservationHandler) RequestArrival(c *gin.Context) {
	respond(c, h.svc.RequestBuyerArrival(c, actor(c), c.Param("id")))
}

// POST /v1/reservations/:id/arrival/confirm (fisher)
func (h *ReservationHandler) ConfirmArrival(c *gin.Context) {
	respond(c, h.svc.ConfirmBuyerArrival(c, actor(c), c.Param("id")))
}

// POST /v1/reservations/:id/arrival/declare (fisher)
func (h *ReservationHandler) DeclareArrival(c *gin.Context) {
	respond(c, h.svc.DeclareFisherArrival(c, actor(c), c.Param("id")))
}

// POST /v1/reservations/:id/delay (fisher or buyer)
func (h *ReservationHandler) Delay(c *gin.Context) {
	respond(c, h.svc.DeclareDelay(c, actor(c), c.Param("id")))
}

// POST /v1/reservations/:id/cancel-late (fisher or buyer)
func (h *ReservationHandler) CancelLate(c *gin.Context) {
	respond(c, h.svc.CancelAfterArrival(c, actor(c), c.Param("id")))
}

// POST /v1/reservations/:id/dispute (admin)
func (h *ReservationHandler) ResolveDispute(c *gin.Context) {
	var in struct {
		Resolution string `json:"resolution" binding:"required"` // refund_buyer|pay_fisher|split
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	respond(c, h.svc.ResolveDispute(c, actor(c), c.Param("id"), domain.DisputeResolution(in.Resolution)))
}

// POST /v1/admin/reset (admin)
func (h *ReservationHandler) Reset(c *gin.Context) {
	if h.svc.Reset(c, actor(c)) {
		c.JSON(http.StatusOK, gin.H{"status": "reset"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "ignored"})
}
