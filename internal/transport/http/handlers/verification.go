package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/dockside-market/internal/domain"
	"github.com/you/dockside-market/internal/market"
)

type VerificationHandler struct {
	svc *market.Service
}

func NewVerificationHandler(svc *market.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

type docInput struct {
	Kind    string `json:"kind" binding:"required"`
	FileURI string `json:"file_uri" binding:"required"`
}

func toDocs(in []docInput) []market.Document {
	out := make([]market.Document, 0, len(in))
	for _, d := range in {
		out = append(out, market.Document{Kind: d.Kind, FileURI: d.FileURI})
	}
	return out
}

// POST /v1/verification/fisher
func (h *VerificationHandler) SubmitFisher(c *gin.Context) {
	var in struct {
		BoatRegistration string     `json:"boat_registration"`
		Permit           string     `json:"permit"`
		Insurance        string     `json:"insurance"`
		IBAN             string     `json:"iban"`
		Documents        []docInput `json:"documents"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rep := h.svc.SubmitFisherVerification(c, actor(c), domain.FisherProfile{
		BoatRegistration: in.BoatRegistration,
		Permit:           in.Permit,
		Insurance:        in.Insurance,
		IBAN:             in.IBAN,
	}, toDocs(in.Documents))
	if rep == nil {
		c.JSON(http.StatusAccepted, gin.H{"status": "ignored"})
		return
	}
	c.JSON(http.StatusOK, rep)
}

// POST /v1/verification/buyer
func (h *VerificationHandler) SubmitBuyer(c *gin.Context) {
	var in struct {
		SIRET         string     `json:"siret"`
		Activity      string     `json:"activity"`
		PaymentMethod string     `json:"payment_method"`
		Documents     []docInput `json:"documents"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rep := h.svc.SubmitBuyerVerification(c, actor(c), domain.BuyerProfile{
		SIRET:         in.SIRET,
		Activity:      in.Activity,
		PaymentMethod: in.PaymentMethod,
	}, toDocs(in.Documents))
	if rep == nil {
		c.JSON(http.StatusAccepted, gin.H{"status": "ignored"})
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GET /v1/verification/me
func (h *VerificationHandler) Me(c *gin.Context) {
	a := h.svc.Applicant(c, c.GetString("sub"))
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no submission yet"})
		return
	}
	c.JSON(http.StatusOK, a)
}

// GET /v1/verification/me/history
func (h *VerificationHandler) History(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"reports": h.svc.VerificationHistory(c, c.GetString("sub"))})
}
