package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/investorportal/domain"
)

// ReferralHandlers handles invite, share and referral-stat HTTP requests
type ReferralHandlers struct {
	referralSvc domain.ReferralService
	inviteTTL   time.Duration
}

// NewReferralHandlers creates new referral handlers
func NewReferralHandlers(referralSvc domain.ReferralService, inviteTTL time.Duration) *ReferralHandlers {
	return &ReferralHandlers{referralSvc: referralSvc, inviteTTL: inviteTTL}
}

// CreateInviteRequest represents an invite-link creation request
type CreateInviteRequest struct {
	Label   string `json:"label,omitempty"`
	MaxUses int    `json:"max_uses" binding:"required,gt=0,lte=100"`
}

// CreateShareRequest represents a share-link creation request
type CreateShareRequest struct {
	Title string `json:"title" binding:"required"`
}

// CreateInvite creates an invite link for the authenticated investor
func (h *ReferralHandlers) CreateInvite(c *gin.Context) {
	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.referralSvc.CreateInvite(c.Request.Context(), c.GetString("phone"), req.Label, req.MaxUses, h.inviteTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invite"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"code":       link.Code,
			"label":      link.Label,
			"max_uses":   link.MaxUses,
			"expires_at": link.ExpiresAt,
		},
	})
}

// CreateShare creates a share link for the authenticated investor
func (h *ReferralHandlers) CreateShare(c *gin.Context) {
	var req CreateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.referralSvc.CreateShare(c.Request.Context(), c.GetString("phone"), req.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create share link"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"key":   link.Key,
			"title": link.Title,
		},
	})
}

// RecordShareView records an anonymous view of a shared deck
func (h *ReferralHandlers) RecordShareView(c *gin.Context) {
	link, err := h.referralSvc.RecordShareView(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, domain.ErrShareNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Share link not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record view"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"title": link.Title,
			"views": link.Views,
		},
	})
}

// MyReferrals returns the authenticated investor's referral stats and badges
func (h *ReferralHandlers) MyReferrals(c *gin.Context) {
	phone := c.GetString("phone")

	stats, err := h.referralSvc.Stats(c.Request.Context(), phone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load referral stats"})
		return
	}
	badges, err := h.referralSvc.Badges(c.Request.Context(), phone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load badges"})
		return
	}

	badgeKeys := make([]string, 0, len(badges))
	for _, b := range badges {
		badgeKeys = append(badgeKeys, b.Key)
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"score":              stats.Score(),
			"invites_created":    stats.InvitesCreated,
			"invite_redemptions": stats.InviteRedemptions,
			"shares_with_views":  stats.SharesWithViews,
			"share_views":        stats.ShareViews,
			"referred_signed":    stats.ReferredSigned,
			"badges":             badgeKeys,
		},
	})
}
