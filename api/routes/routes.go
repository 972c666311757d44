package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArowuTest/growdice-backend/internal/config"
	"github.com/ArowuTest/growdice-backend/internal/handlers"
	"github.com/ArowuTest/growdice-backend/internal/middleware"
	"github.com/ArowuTest/growdice-backend/pkg/jwt"
)

// Handlers groups the HTTP handlers mounted by SetupRouter.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Box      *handlers.BoxHandler
	Wallet   *handlers.WalletHandler
	User     *handlers.UserHandler
	Settings *handlers.SystemSettingsHandler
	Chat     *handlers.ChatHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, tokens *jwt.TokenService, h *Handlers, log *slog.Logger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		boxes := public.Group("/boxes")
		{
			boxes.GET("", h.Box.ListBoxes)
			boxes.GET("/:id", h.Box.GetBox)
			boxes.GET("/:id/stats", h.Box.GetStats)
		}

		public.GET("/chat/messages", h.Chat.GetMessages)
	}

	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuth(tokens, log))
	{
		protected.POST("/boxes/:id/open", h.Box.OpenBox)
		protected.POST("/store/purchase/:id", h.Wallet.Purchase)
		protected.POST("/chat/messages", h.Chat.PostMessage)

		wallet := protected.Group("/wallet")
		{
			wallet.GET("", h.Wallet.GetWallet)
			wallet.POST("/topup", h.Wallet.Topup)
			wallet.GET("/transactions", h.Wallet.GetTransactions)
			wallet.GET("/stream", h.Wallet.Stream)
		}

		me := protected.Group("/me")
		{
			me.GET("", h.User.Me)
			me.GET("/settlements", h.User.MySettlements)
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("/boxes", h.Box.CreateBox)
			admin.PUT("/boxes/:id", h.Box.UpdateBox)
			admin.DELETE("/boxes/:id", h.Box.DeleteBox)

			admin.GET("/users", h.User.GetAllUsers)
			admin.PUT("/users/:id/block", h.User.BlockUser)
			admin.PUT("/users/:id/unblock", h.User.UnblockUser)

			admin.GET("/settings", h.Settings.GetSettings)
			admin.PUT("/settings", h.Settings.UpdateSettings)
		}
	}

	return router
}
