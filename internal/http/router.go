package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/you/investorportal/internal/http/handlers"
	"github.com/you/investorportal/internal/http/middleware"
)

// BuildRouter wires every route group. The session middleware guards
// everything investor-facing; the casbin middleware additionally gates
// admin routes.
func BuildRouter(
	ah *handlers.AuthHandlers,
	lh *handlers.LinkHandlers,
	agh *handlers.AgreementHandlers,
	rh *handlers.ReferralHandlers,
	adh *handlers.AdminHandlers,
	ph *handlers.PolicyHandlers,
	sessionMW gin.HandlerFunc,
	casbinMW *middleware.CasbinMW,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/request-otp", ah.RequestOTP)
	auth.POST("/verify-otp", ah.VerifyOTP)
	auth.POST("/login-linked", ah.LoginLinked)
	// Emailed confirmation callback; the token authenticates the request.
	auth.GET("/link-email", lh.ConfirmEmailLink)

	// Anonymous view recording for shared decks.
	r.POST("/shares/:key/view", rh.RecordShareView)

	v := r.Group("/").Use(sessionMW)
	v.GET("/auth/me", ah.Me)
	v.POST("/auth/logout", ah.Logout)
	v.POST("/auth/link-email", lh.RequestEmailLink)
	v.GET("/agreements", agh.Get)
	v.POST("/agreements", agh.Create)
	v.POST("/agreements/sign", agh.Sign)
	v.GET("/agreements/:id/pdf", agh.RenderPDF)
	v.POST("/invites", rh.CreateInvite)
	v.POST("/shares", rh.CreateShare)
	v.GET("/referrals/me", rh.MyReferrals)

	adm := r.Group("/admin").Use(sessionMW, casbinMW.Enforce())
	adm.POST("/agreements", agh.AdminAction)
	adm.POST("/investors", adh.ManageInvestor)
	adm.GET("/policies", ph.List)
	adm.POST("/policies", ph.Add)
	adm.DELETE("/policies", ph.Remove)

	return r
}
