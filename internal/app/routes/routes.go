package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ashetian/sdc-web-sub003/internal/app/controllers"
	"github.com/ashetian/sdc-web-sub003/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	votingController *controllers.VotingController,
	electionController *controllers.ElectionController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Public voting routes ---
	elections := v1.Group("/elections")
	{
		elections.GET("/:id", electionController.GetElection)
		elections.GET("/:id/results", electionController.GetResults)
		elections.POST("/:id/verify", votingController.VerifyVoter)
		elections.POST("/:id/vote", votingController.CastVote)
	}

	// --- Staff administration routes ---
	admin := v1.Group("/admin")
	{
		admin.POST("/login", adminController.Login)

		protected := admin.Group("")
		protected.Use(authMiddleware.StaffAuth())
		{
			protected.GET("/elections", electionController.ListElections)
			protected.POST("/elections", electionController.CreateElection)
			protected.PUT("/elections/:id", electionController.UpdateElection)
			protected.PUT("/elections/:id/status", electionController.SetStatus)
			protected.POST("/elections/:id/suspend", electionController.SuspendElection)

			protected.POST("/elections/:id/candidates", electionController.AddCandidate)
			protected.PUT("/elections/:id/candidates/:candidateId", electionController.UpdateCandidate)
			protected.DELETE("/elections/:id/candidates/:candidateId", electionController.RemoveCandidate)

			protected.PUT("/elections/:id/roster", electionController.ImportRoster)
		}
	}
}
