package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/investorportal/domain"
)

// LinkHandlers handles identity-linking HTTP requests
type LinkHandlers struct {
	linkSvc     domain.LinkService
	redirectURL string
}

// NewLinkHandlers creates new link handlers
func NewLinkHandlers(linkSvc domain.LinkService, redirectURL string) *LinkHandlers {
	return &LinkHandlers{linkSvc: linkSvc, redirectURL: redirectURL}
}

// RequestEmailLinkRequest represents an email link request
type RequestEmailLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestEmailLink starts the email linking flow for the authenticated
// investor
func (h *LinkHandlers) RequestEmailLink(c *gin.Context) {
	var req RequestEmailLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	phone := c.GetString("phone")
	if err := h.linkSvc.RequestEmailLink(c.Request.Context(), phone, req.Email); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
		case errors.Is(err, domain.ErrAccountLinked):
			c.JSON(http.StatusConflict, gin.H{"error": "Email already linked"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send link email"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Confirmation email sent"})
}

// ConfirmEmailLink handles the emailed confirmation callback. The outcome
// is signalled through the redirect target only.
func (h *LinkHandlers) ConfirmEmailLink(c *gin.Context) {
	token := c.Query("token")
	email := c.Query("email")
	phone := c.Query("phone")

	if err := h.linkSvc.ConfirmEmailLink(c.Request.Context(), token, email, phone); err != nil {
		c.Redirect(http.StatusFound, h.redirectURL+"?linked=0")
		return
	}
	c.Redirect(http.StatusFound, h.redirectURL+"?linked=1")
}
