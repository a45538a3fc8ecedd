package router

import (
	"time"

	"github.com/Kartik1014/Rentit/internal/auth"
	"github.com/Kartik1014/Rentit/internal/handlers"
	"github.com/Kartik1014/Rentit/internal/middleware"
	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/ratelimit"
	"github.com/Kartik1014/Rentit/internal/repository"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Deps struct {
	Handler        *handlers.Handler
	Tokens         *auth.TokenManager
	Users          repository.UserRepository
	Limiter        ratelimit.Limiter
	AuthRateLimit  ratelimit.Rule
	AllowedOrigins []string
	Logger         *zap.Logger
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggingMiddleware(deps.Logger))
	r.Use(middleware.MetricsMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := deps.Handler
	authenticated := middleware.AuthMiddleware(deps.Tokens, deps.Users)
	limited := middleware.RateLimitMiddleware(deps.Limiter, deps.AuthRateLimit, deps.Logger)

	roles := func(allowed ...models.Role) gin.HandlerFunc {
		return middleware.RequireRoles(deps.Logger, allowed...)
	}
	ownerOrAdmin := roles(models.RoleOwner, models.RoleAdmin)
	tenantOrAdmin := roles(models.RoleTenant, models.RoleAdmin)
	tenantOnly := roles(models.RoleTenant)

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/ws", authenticated, h.WebSocket)

		account := api.Group("/auth")
		{
			account.POST("/register", limited, h.Register)
			account.POST("/login", limited, h.Login)
			account.POST("/refresh", h.Refresh)
			account.POST("/logout", authenticated, h.Logout)
			account.GET("/profile", authenticated, h.Profile)
			account.POST("/reset-password-request", limited, h.RequestPasswordReset)
			account.POST("/reset-password", limited, h.ResetPassword)
		}

		properties := api.Group("/properties")
		{
			properties.GET("", h.ListProperties)
			properties.GET("/:id", h.GetProperty)
			properties.POST("", authenticated, ownerOrAdmin, h.CreateProperty)
			properties.PUT("/:id", authenticated, ownerOrAdmin, h.UpdateProperty)
			properties.DELETE("/:id", authenticated, ownerOrAdmin, h.DeleteProperty)
			properties.PATCH("/:id/status", authenticated, ownerOrAdmin, h.UpdatePropertyStatus)
			properties.GET("/owner/:owner_id", authenticated, ownerOrAdmin, h.ListOwnerProperties)
		}

		search := api.Group("/search")
		{
			search.GET("", h.SearchProperties)
			search.GET("/nearby", h.SearchNearby)
		}

		bookings := api.Group("/bookings", authenticated)
		{
			bookings.POST("", tenantOnly, h.CreateBooking)
			bookings.GET("/:id", h.GetBooking)
			bookings.PATCH("/:id/approve", ownerOrAdmin, h.ApproveBooking)
			bookings.PATCH("/:id/reject", ownerOrAdmin, h.RejectBooking)
			bookings.PATCH("/:id/cancel", tenantOrAdmin, h.CancelBooking)
			bookings.GET("/tenant/:tenant_id", h.ListTenantBookings)
			bookings.GET("/owner/:owner_id", ownerOrAdmin, h.ListOwnerBookings)
		}

		reviews := api.Group("/reviews")
		{
			reviews.GET("/property/:property_id", h.ListPropertyReviews)
			reviews.POST("", authenticated, tenantOnly, h.CreateReview)
			reviews.PUT("/:id", authenticated, tenantOrAdmin, h.UpdateReview)
			reviews.DELETE("/:id", authenticated, tenantOrAdmin, h.DeleteReview)
		}

		admin := api.Group("/admin", authenticated, roles(models.RoleAdmin))
		{
			admin.GET("/users", h.ListUsers)
			admin.DELETE("/users/:id", h.DeleteUser)
			admin.PATCH("/users/:id/role", h.ChangeUserRole)
			admin.GET("/properties/pending", h.ListPendingProperties)
			admin.PATCH("/properties/:id/verify", h.VerifyProperty)
			admin.GET("/analytics", h.Analytics)
		}

		images := api.Group("/images")
		{
			images.GET("/:filename", h.GetImage)
			images.POST("/upload", authenticated, h.UploadImages)
			images.DELETE("/:filename", authenticated, h.DeleteImage)
		}
	}

	return r
}
