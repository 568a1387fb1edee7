package cadet

import (
	"platoon-pulse/internal/middleware"
	"platoon-pulse/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	tokens middleware.TokenParser,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	cadets := r.Group("/cadets")
	cadets.Use(middleware.AuthMiddleware(tokens))
	cadets.Use(middleware.ContextLogger(logger))
	{
		cadets.GET("/me",
			middleware.RBACAuthorize(rbacService, "cadet", "read_own"),
			middleware.RequireLinkedCadet(),
			handler.GetMine,
		)

		cadets.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "cadet", "read"),
			handler.GetAll,
		)

		cadets.GET("/options",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "cadet", "read"),
			handler.GetOptions,
		)

		cadets.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "cadet", "read"),
			handler.GetByID,
		)

		cadets.POST("",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, "cadet", "manage"),
			middleware.Idempotency(rdb, logger),
			handler.Create,
		)

		cadets.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "cadet", "manage"),
			handler.Update,
		)

		cadets.DELETE("/:id",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "cadet", "manage"),
			handler.Delete,
		)

		cadets.POST("/:id/family-contacts",
			middleware.RBACAuthorize(rbacService, "cadet", "manage"),
			handler.AddFamilyContact,
		)

		cadets.DELETE("/:id/family-contacts/:contactId",
			middleware.RBACAuthorize(rbacService, "cadet", "manage"),
			handler.RemoveFamilyContact,
		)
	}
}
