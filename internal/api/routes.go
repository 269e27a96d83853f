package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"storefront-account-go/internal/account"
	"storefront-account-go/internal/config"
	"storefront-account-go/internal/middleware"
)

// SetupRoutes configures all the application routes with their handlers and middleware.
// Global middleware (logging, recovery, CORS, metrics) is applied to router in main.go.
// metrics may be nil; gatherer may be nil to leave /metrics unregistered.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	authClient AuthClient,
	services account.Services,
	metrics *middleware.Metrics,
	gatherer prometheus.Gatherer,
) {
	if authClient == nil {
		logger.Fatal("CRITICAL_SETUP_ERROR: Firebase Auth client is not initialized. Routes will not be set up.")
	}
	authMW := middleware.NewAuthMiddleware(authClient, appConfig.LoginPath, logger)

	var recorder account.Recorder
	if metrics != nil {
		recorder = metrics
	}
	h := NewAccountHandler(services, authClient, recorder, appConfig.LoginPath, appConfig.SessionRecheckInterval, logger)

	apiV1 := router.Group("/api/v1")
	{
		accountGroup := apiV1.Group("/account", authMW.VerifyToken())
		{
			accountGroup.GET("", h.GetAccount)
			accountGroup.GET("/stream", h.StreamAccount)
		}

		profileGroup := apiV1.Group("/profile", authMW.VerifyToken())
		{
			profileGroup.GET("", h.GetProfile)
			profileGroup.PUT("", h.UpdateProfile)
			profileGroup.POST("/photo", h.UploadPhoto)
			profileGroup.DELETE("/photo", h.RemovePhoto)
		}

		ordersGroup := apiV1.Group("/orders", authMW.VerifyToken())
		{
			ordersGroup.GET("", h.ListOrders)
			ordersGroup.POST("/:orderId/cancel", h.CancelOrder)
			ordersGroup.POST("/:orderId/reorder", h.Reorder)
		}

		wishlistGroup := apiV1.Group("/wishlist", authMW.VerifyToken())
		{
			wishlistGroup.GET("", h.GetWishlist)
			wishlistGroup.DELETE("/items/:productId", h.RemoveWishlistItem)
			wishlistGroup.POST("/items/:productId/cart", h.AddToCart)
		}

		couponsGroup := apiV1.Group("/coupons", authMW.VerifyToken())
		{
			couponsGroup.GET("", h.ListCoupons)
			couponsGroup.POST("/:couponId/copy", h.CopyCoupon)
		}

		supportGroup := apiV1.Group("/support")
		{
			supportGroup.GET("/prefill", authMW.VerifyToken(), h.GetSupportPrefill)
			supportGroup.GET("/queries", authMW.VerifyToken(), h.ListSupportQueries)
			// The help form is also open to anonymous visitors.
			supportGroup.POST("/queries", authMW.OptionalAuth(), h.SubmitSupportQuery)
		}

		apiV1.POST("/session/signout", authMW.VerifyToken(), h.SignOut)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Storefront account service is healthy."})
	})
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	logger.Info("API routes configured successfully under /api/v1 and /health.")
}
