package hackathon

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hellonmn/evenose-sub000/config"
	"github.com/hellonmn/evenose-sub000/internal/auth"
	mw "github.com/hellonmn/evenose-sub000/internal/middleware"
	"github.com/hellonmn/evenose-sub000/internal/notification"
)

// HackathonRoutes sets up all hackathon-related routes.
func HackathonRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, notifier notification.Notifier) {
	repo := NewHackathonRepository(db)
	users := auth.NewAuthRepository(db)
	controller := NewHackathonController(repo, users, notifier, appConfig)

	// Public routes
	router.GET("/hackathons", controller.GetHackathons)
	router.GET("/hackathons/:hackathon_id", controller.GetHackathonByID)

	authRoutes := router.Group("/")
	authRoutes.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		authRoutes.POST("/hackathons", controller.CreateHackathon)
		authRoutes.PUT("/hackathons/:hackathon_id", controller.UpdateHackathon)
		authRoutes.DELETE("/hackathons/:hackathon_id", controller.DeleteHackathon)

		// Invitation flows. Accept routes resolve by token, not id.
		authRoutes.POST("/hackathons/:hackathon_id/coordinators/invite", controller.InviteCoordinator)
		authRoutes.POST("/hackathons/coordinators/accept/:token", controller.AcceptCoordinatorInvite)
		authRoutes.POST("/hackathons/:hackathon_id/judges/invite", controller.InviteJudge)
		authRoutes.POST("/hackathons/judges/accept/:token", controller.AcceptJudgeInvite)
	}
}
