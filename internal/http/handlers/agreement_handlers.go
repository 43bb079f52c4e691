package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/you/investorportal/domain"
)

// AgreementHandlers handles SAFE agreement HTTP requests
type AgreementHandlers struct {
	agreementSvc domain.AgreementService
}

// NewAgreementHandlers creates new agreement handlers
func NewAgreementHandlers(agreementSvc domain.AgreementService) *AgreementHandlers {
	return &AgreementHandlers{agreementSvc: agreementSvc}
}

// CreateAgreementRequest represents an agreement draft
type CreateAgreementRequest struct {
	LegalName         string `json:"legal_name" binding:"required"`
	Email             string `json:"email" binding:"required,email"`
	Company           string `json:"company,omitempty"`
	AmountCents       int64  `json:"amount_cents" binding:"required,gt=0"`
	ValuationCapCents int64  `json:"valuation_cap_cents" binding:"required,gt=0"`
}

// SignAgreementRequest represents an investor signature submission
type SignAgreementRequest struct {
	AgreementID         uint   `json:"agreement_id" binding:"required"`
	LegalName           string `json:"legal_name" binding:"required"`
	AgreedToTerms       bool   `json:"agreed_to_terms"`
	AuthorizedSignatory bool   `json:"authorized_signatory"`
	ConsentToESignature bool   `json:"consent_to_esignature"`
}

// AdminAgreementRequest represents an issuer-side agreement action
type AdminAgreementRequest struct {
	AgreementID uint   `json:"agreement_id" binding:"required"`
	Action      string `json:"action" binding:"required,oneof=countersign void"`
}

// Create handles agreement creation for the authenticated investor
func (h *AgreementHandlers) Create(c *gin.Context) {
	var req CreateAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft := domain.AgreementDraft{
		LegalName:         req.LegalName,
		Email:             req.Email,
		Company:           req.Company,
		AmountCents:       req.AmountCents,
		ValuationCapCents: req.ValuationCapCents,
	}
	a, err := h.agreementSvc.Create(c.Request.Context(), c.GetString("phone"), draft)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAmountTooLow):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Investment amount below minimum"})
		case errors.Is(err, domain.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
		case errors.Is(err, domain.ErrAgreementExists):
			c.JSON(http.StatusConflict, gin.H{"error": "A live agreement already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create agreement"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": agreementJSON(a)})
}

// Get returns the authenticated investor's live agreement
func (h *AgreementHandlers) Get(c *gin.Context) {
	a, err := h.agreementSvc.Get(c.Request.Context(), c.GetString("phone"))
	if err != nil {
		if errors.Is(err, domain.ErrAgreementNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No live agreement"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load agreement"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": agreementJSON(a)})
}

// Sign handles the investor signature
func (h *AgreementHandlers) Sign(c *gin.Context) {
	var req SignAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := domain.ClientInfo{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
	a, err := h.agreementSvc.Sign(c.Request.Context(), c.GetString("phone"), domain.SignRequest{
		AgreementID:         req.AgreementID,
		LegalName:           req.LegalName,
		AgreedToTerms:       req.AgreedToTerms,
		AuthorizedSignatory: req.AuthorizedSignatory,
		ConsentToESignature: req.ConsentToESignature,
	}, client)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConsentRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "All consents are required"})
		case errors.Is(err, domain.ErrNameMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Typed name does not match the agreement"})
		case errors.Is(err, domain.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Not your agreement"})
		case errors.Is(err, domain.ErrAgreementNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Agreement not found"})
		case errors.Is(err, domain.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Agreement is not awaiting signature"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign agreement"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": agreementJSON(a)})
}

// RenderPDF streams the agreement document to its owner
func (h *AgreementHandlers) RenderPDF(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid agreement id"})
		return
	}

	pdf, err := h.agreementSvc.Render(c.Request.Context(), c.GetString("phone"), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAgreementNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Agreement not found"})
		case errors.Is(err, domain.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Not your agreement"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render agreement"})
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=safe-agreement-%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// AdminAction handles issuer countersign and void
func (h *AgreementHandlers) AdminAction(c *gin.Context) {
	var req AdminAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		a   *domain.Agreement
		err error
	)
	switch req.Action {
	case "countersign":
		a, err = h.agreementSvc.Countersign(c.Request.Context(), req.AgreementID, c.ClientIP())
	case "void":
		a, err = h.agreementSvc.Void(c.Request.Context(), req.AgreementID)
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAgreementNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Agreement not found"})
		case errors.Is(err, domain.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Agreement is not in a valid state for this action"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Action failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": agreementJSON(a)})
}

func agreementJSON(a *domain.Agreement) gin.H {
	out := gin.H{
		"id":                  a.ID,
		"investor_name":       a.InvestorName,
		"investor_email":      a.InvestorEmail,
		"company":             a.Company,
		"amount_cents":        a.AmountCents,
		"valuation_cap_cents": a.ValuationCapCents,
		"status":              a.Status,
		"created_at":          a.CreatedAt,
	}
	if a.Signature != nil {
		out["signed_at"] = a.Signature.SignedAt
		out["document_hash"] = a.Signature.DocumentHash
	}
	if a.CounterSig != nil {
		out["countersigned_at"] = a.CounterSig.SignedAt
	}
	return out
}
