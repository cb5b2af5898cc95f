package team

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hellonmn/evenose-sub000/config"
	"github.com/hellonmn/evenose-sub000/internal/auth"
	"github.com/hellonmn/evenose-sub000/internal/hackathon"
	"github.com/hellonmn/evenose-sub000/internal/middleware"
	"github.com/hellonmn/evenose-sub000/internal/notification"
)

func TeamRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, notifier notification.Notifier, log *zap.Logger) {
	service := NewTeamService(
		NewTeamRepository(db),
		hackathon.NewHackathonRepository(db),
		auth.NewAuthRepository(db),
		notifier,
		log,
	)
	controller := NewTeamController(service)

	router.GET("/teams/:id", controller.GetTeam)

	authorized := router.Group("/")
	authorized.Use(middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		authorized.GET("/teams", controller.ListTeams)

		teams := authorized.Group("/teams")
		{
			teams.POST("/register", controller.RegisterTeam)
			teams.POST("/bulk-approve", controller.BulkApprove)
			teams.POST("/bulk-reject", controller.BulkReject)

			teams.PUT("/:id", controller.RenameTeam)
			teams.POST("/:id/confirm", controller.ConfirmTeam)
			teams.POST("/:id/approve", controller.ApproveTeam)
			teams.POST("/:id/reject", controller.RejectTeam)
			teams.POST("/:id/resubmit", controller.ResubmitTeam)

			teams.POST("/:id/join-requests", controller.SendJoinRequest)
			teams.GET("/:id/join-requests", controller.ListJoinRequests)
			teams.POST("/:id/join-requests/:reqId/accept", controller.AcceptJoinRequest)
			teams.POST("/:id/join-requests/:reqId/reject", controller.RejectJoinRequest)
			teams.DELETE("/:id/join-requests/:reqId", controller.CancelJoinRequest)
			teams.POST("/:id/invitations", controller.InviteMember)

			teams.POST("/:id/leave", controller.LeaveTeam)
			teams.DELETE("/:id/members/:userId", controller.RemoveMember)

			teams.POST("/:id/check-in/:userId", controller.CheckInMember)
			teams.POST("/:id/assign-table", controller.AssignTable)
			teams.POST("/:id/eliminate", controller.EliminateTeam)

			teams.POST("/:id/submissions", controller.SubmitProject)
			teams.GET("/:id/submissions", controller.GetSubmissions)
			teams.POST("/:id/scores", controller.ScoreTeam)
			teams.GET("/:id/scores", controller.GetScores)
		}

		authorized.GET("/hackathons/:hackathon_id/teams", controller.ListTeams)
		authorized.POST("/hackathons/:hackathon_id/announce", controller.Announce)
	}
}
