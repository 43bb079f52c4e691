package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/you/investorportal/domain"
)

// AdminHandlers handles investor administration requests
type AdminHandlers struct {
	investorRepo domain.InvestorRepository
	sessionSvc   domain.SessionService
	logger       *logrus.Logger
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(investorRepo domain.InvestorRepository, sessionSvc domain.SessionService, logger *logrus.Logger) *AdminHandlers {
	return &AdminHandlers{
		investorRepo: investorRepo,
		sessionSvc:   sessionSvc,
		logger:       logger,
	}
}

// AdminInvestorRequest represents an investor management action
type AdminInvestorRequest struct {
	Action  string `json:"action" binding:"required,oneof=create deactivate"`
	Phone   string `json:"phone" binding:"required"`
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	Role    string `json:"role,omitempty"`
}

// ManageInvestor creates or deactivates an investor identity. Deactivation
// also revokes every open session for the phone.
func (h *AdminHandlers) ManageInvestor(c *gin.Context) {
	var req AdminInvestorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Action {
	case "create":
		role := req.Role
		if role == "" {
			role = domain.RoleInvestor
		}
		inv := &domain.Investor{
			Phone:    req.Phone,
			Name:     req.Name,
			Company:  req.Company,
			Role:     role,
			IsActive: true,
		}
		if err := h.investorRepo.Create(c.Request.Context(), inv); err != nil {
			if errors.Is(err, domain.ErrInvestorExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "Investor already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create investor"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"data": gin.H{
				"phone": inv.Phone,
				"name":  inv.Name,
				"role":  inv.Role,
			},
		})

	case "deactivate":
		if err := h.investorRepo.Deactivate(c.Request.Context(), req.Phone); err != nil {
			if errors.Is(err, domain.ErrInvestorNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Investor not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate investor"})
			return
		}
		if err := h.sessionSvc.RevokeAllForPhone(c.Request.Context(), req.Phone); err != nil {
			h.logger.WithError(err).WithField("phone", req.Phone).Error("failed to revoke sessions on deactivation")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Investor deactivated but session revocation failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Investor deactivated"})
	}
}
