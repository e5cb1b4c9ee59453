package router

import (
	"github.com/gin-gonic/gin"

	"github.com/caloriemate/backend/internal/api"
	"github.com/caloriemate/backend/internal/middleware"
	"github.com/caloriemate/backend/internal/models"
	"github.com/caloriemate/backend/internal/service"
)

// Options carries the collaborators the router wires together. The rate
// limiters are optional; without Redis the routes simply run unthrottled.
type Options struct {
	AuthHandler     *api.AuthHandler
	DailyLogHandler *api.DailyLogHandler
	AuthService     service.IAuthService
	OracleLimiter   *middleware.RateLimiter
	LogWriteLimiter *middleware.RateLimiter
	AllowedOrigins  []string
}

// SetupRouter configures the application routes
func SetupRouter(opts Options) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CORS(opts.AllowedOrigins))

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", opts.AuthHandler.Register)
		auth.POST("/activation", opts.AuthHandler.Activation)
		auth.POST("/login", opts.AuthHandler.Login)
	}

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(opts.AuthService))
	{
		protected.GET("/auth/me", opts.AuthHandler.Me)

		member := protected.Group("")
		member.Use(middleware.RequireRoles(models.RoleMember))
		{
			member.PUT("/auth/update-profile", opts.AuthHandler.UpdateProfile)
			member.PUT("/auth/update-password", opts.AuthHandler.UpdatePassword)

			logs := member.Group("")
			if opts.LogWriteLimiter != nil {
				logs.Use(opts.LogWriteLimiter.Middleware())
			}
			logs.POST("/daily-log", opts.DailyLogHandler.Create)
			logs.PUT("/daily-log/:id", opts.DailyLogHandler.UpdateEntries)

			member.GET("/daily-log/:id", opts.DailyLogHandler.FindOne)
			member.GET("/daily-log-member", opts.DailyLogHandler.FindAllByMember)
			member.PUT("/daily-log/:id/personal", opts.DailyLogHandler.UpdatePersonalData)
			member.DELETE("/daily-log/:id", opts.DailyLogHandler.Delete)
			member.DELETE("/daily-log/:id/food/:entryId", opts.DailyLogHandler.DeleteFoodEntry)
			member.DELETE("/daily-log/:id/activity/:entryId", opts.DailyLogHandler.DeleteActivityEntry)

			oracle := member.Group("")
			if opts.OracleLimiter != nil {
				oracle.Use(opts.OracleLimiter.Middleware())
			}
			oracle.GET("/daily-log-report", opts.DailyLogHandler.GetReport)
			oracle.GET("/daily-log-recipe", opts.DailyLogHandler.GetRecipe)
		}

		admin := protected.Group("")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/daily-log", opts.DailyLogHandler.FindAll)
		}
	}

	return router
}
