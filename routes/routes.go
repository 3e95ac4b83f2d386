package routes

import (
	"net/http"
	"time"

	"travelagency/handlers"
	"travelagency/middleware"
	"travelagency/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	adminOnly = middleware.RequireRole(utils.RoleAdmin)
	agentOnly = middleware.RequireRole(utils.RoleAgent)
)

// RegisterPackageRoutes registers the catalog. Reads are public.
func RegisterPackageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/packages")
	{
		api.GET("", hb.Packages.ListPackagesHandler)
		api.GET("/:id", hb.Packages.GetPackageHandler)
		api.GET("/:id/quote", middleware.OptionalJWTMiddleware(), hb.Wizard.QuoteHandler)

		admin := api.Group("", middleware.JWTAuthMiddleware(), adminOnly)
		admin.POST("", hb.Packages.SavePackageHandler)
		admin.PUT("/:id", hb.Packages.SavePackageHandler)
		admin.PUT("/:id/archive", hb.Packages.ArchivePackageHandler)
		admin.DELETE("/:id", hb.Packages.DeletePackageHandler)
	}
}

// RegisterBookingRoutes registers stored bookings.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/mine", hb.Bookings.MyBookingsHandler)

		admin := api.Group("", adminOnly)
		admin.GET("", hb.Bookings.ListBookingsHandler)
		admin.GET("/:id", hb.Bookings.GetBookingHandler)
		admin.PUT("/:id/status", hb.Bookings.UpdateStatusHandler)
		admin.DELETE("/:id", hb.Bookings.DeleteBookingHandler)
	}
}

// RegisterWizardRoutes registers the booking wizard. Anonymous clients may
// book; a valid agency token attaches the agency.
func RegisterWizardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/booking/wizard")
	{
		api.Use(middleware.OptionalJWTMiddleware())
		api.POST("", hb.Wizard.StartWizardHandler)
		api.GET("/:id", hb.Wizard.GetWizardHandler)
		api.PATCH("/:id", hb.Wizard.UpdateWizardHandler)
		api.POST("/:id/next", hb.Wizard.NextHandler)
		api.POST("/:id/back", hb.Wizard.BackHandler)
		api.POST("/:id/submit", hb.Wizard.SubmitHandler)
		api.DELETE("/:id", hb.Wizard.CancelHandler)
	}
}

// RegisterWalletRoutes registers agency top-ups and their review.
func RegisterWalletRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/wallet")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/requests", agentOnly, hb.Wallet.CreateRequestHandler)
		api.GET("/requests/mine", agentOnly, hb.Wallet.MyRequestsHandler)

		admin := api.Group("", adminOnly)
		admin.GET("/requests", hb.Wallet.ListRequestsHandler)
		admin.PUT("/requests/:id/approve", hb.Wallet.ApproveHandler)
		admin.PUT("/requests/:id/reject", hb.Wallet.RejectHandler)
	}
}

// RegisterAccountRoutes registers sign-in and profile endpoints.
func RegisterAccountRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/account")
	{
		api.POST("/login", hb.Account.LoginHandler)
		api.POST("/register", hb.Account.RegisterHandler)
		api.POST("/password/reset", hb.Account.RequestResetHandler)
		api.POST("/password/confirm", hb.Account.ResetPasswordHandler)

		protected := api.Group("", middleware.JWTAuthMiddleware())
		protected.POST("/logout", hb.Account.LogoutHandler)
		protected.GET("/me", hb.Account.MeHandler)
		protected.PATCH("/me", hb.Account.UpdateProfileHandler)
	}
}

// RegisterSubscriberRoutes registers the newsletter.
func RegisterSubscriberRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/subscribers")
	{
		api.POST("", hb.Subscribers.SubscribeHandler)

		admin := api.Group("", middleware.JWTAuthMiddleware(), adminOnly)
		admin.GET("", hb.Subscribers.ListSubscribersHandler)
		admin.DELETE("/:id", hb.Subscribers.DeleteSubscriberHandler)
		admin.POST("/broadcast", hb.Subscribers.BroadcastHandler)
	}
}

// RegisterAIRoutes registers the chat assistant.
func RegisterAIRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/ai")
	{
		api.Use(middleware.OptionalJWTMiddleware())
		api.POST("/chat", hb.AI.ChatHandler)
		api.DELETE("/context", hb.AI.ClearContextHandler)
	}
}

// RegisterFlightRoutes registers fare search and ticketing.
func RegisterFlightRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/flights")
	{
		api.Use(middleware.OptionalJWTMiddleware())
		api.POST("/search", hb.Flights.SearchHandler)
		api.POST("/ticketing", hb.Flights.StartTicketingHandler)
	}
}

// RegisterStorageRoutes registers uploads when Cloudinary is configured.
func RegisterStorageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.Storage == nil {
		return
	}
	api := r.Group("/api/storage")
	{
		api.POST("/upload/:kind", hb.Storage.UploadFileHandler)

		admin := api.Group("", middleware.JWTAuthMiddleware(), adminOnly)
		admin.GET("/secure-url", hb.Storage.SecureURLHandler)
		admin.DELETE("", hb.Storage.DeleteFileHandler)
	}
}

// RegisterAdminRoutes registers operator profile management.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthMiddleware(), adminOnly)
		adminGroup.GET("/profiles", hb.Admin.GetAllProfilesHandler)
		adminGroup.GET("/agents", hb.Admin.GetAgentsHandler)
		adminGroup.PUT("/agents/:id/approval", hb.Admin.SetApprovalHandler)
		adminGroup.DELETE("/agents/:id", hb.Admin.DeleteAgentHandler)
	}
}

// RegisterHealthRoute reports the last dependency health snapshot.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "dependencies": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterPackageRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterWizardRoutes(r, hb)
	RegisterWalletRoutes(r, hb)
	RegisterAccountRoutes(r, hb)
	RegisterSubscriberRoutes(r, hb)
	RegisterAIRoutes(r, hb)
	RegisterFlightRoutes(r, hb)
	RegisterStorageRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
