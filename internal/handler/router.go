package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"deepdelve/campaignhub/internal/config"
	"deepdelve/campaignhub/internal/handler/middleware"
	jwtpkg "deepdelve/campaignhub/pkg/jwt"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	jwtManager *jwtpkg.Manager,
	authHandler *AuthHandler,
	campaignHandler *CampaignHandler,
	inviteHandler *InviteHandler,
	adminHandler *AdminHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public auth routes
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	// Protected routes
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(jwtManager))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		// Campaigns
		protected.POST("/campaigns", campaignHandler.Create)
		protected.GET("/campaigns", campaignHandler.ListMine)
		protected.GET("/campaigns/:id", campaignHandler.Get)
		protected.PUT("/campaigns/:id/data", campaignHandler.SaveData)
		protected.DELETE("/campaigns/:id", campaignHandler.Delete)
		protected.GET("/campaigns/:id/members", campaignHandler.ListMembers)
		protected.GET("/campaigns/:id/rules", campaignHandler.RulesConfig)

		// Invite codes
		protected.POST("/campaigns/:id/invites", inviteHandler.Issue)
		protected.GET("/campaigns/:id/invites", inviteHandler.ListForCampaign)
		protected.POST("/campaigns/:id/invites/revoke", inviteHandler.Revoke)
		protected.POST("/invites/redeem", inviteHandler.Redeem)
	}

	// Admin routes (JWT + admin check)
	if adminHandler != nil {
		admin := r.Group("/api/v1/admin")
		admin.Use(middleware.JWTAuth(jwtManager))
		admin.Use(middleware.AdminAuth(cfg.Admin.UserIDs))
		{
			admin.GET("/invite-codes", adminHandler.ListInviteCodes)
		}
	}

	return r
}
