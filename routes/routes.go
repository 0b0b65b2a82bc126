package routes

import (
	"net/http"

	"examhub/handlers"
	"examhub/middleware"
	"examhub/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const apiVersion = "3.0.0"

type Handlers struct {
	Auth     *handlers.AuthHandler
	Profile  *handlers.ProfileHandler
	Test     *handlers.TestHandler
	Question *handlers.QuestionHandler
}

func SetupRoutes(
	router *gin.Engine,
	prefix string,
	h Handlers,
	auth middleware.Authenticator,
	metrics *middleware.Metrics,
	log logrus.FieldLogger,
) {
	requireAuth := middleware.AuthMiddleware(auth, log)
	institution := middleware.RequireRole(models.RoleInstitution)

	api := router.Group(prefix)
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", h.Auth.Register)
			authRoutes.POST("/login", h.Auth.Login)
			authRoutes.GET("/users", h.Auth.ListUsers)
			authRoutes.GET("/me", requireAuth, h.Auth.Me)
			authRoutes.POST("/change-password", requireAuth, h.Auth.ChangePassword)
			authRoutes.POST("/logout", requireAuth, h.Auth.Logout)
		}

		profiles := api.Group("/profiles")
		{
			profiles.POST("", requireAuth, h.Profile.CreateProfile)
			profiles.GET("", h.Profile.ListProfiles)
			profiles.GET("/me", requireAuth, h.Profile.GetMyProfile)
			profiles.PUT("/me", requireAuth, h.Profile.UpdateMyProfile)
			profiles.DELETE("/me", requireAuth, h.Profile.DeleteMyProfile)
			profiles.GET("/user/:user_id", h.Profile.GetProfileByUserID)
			profiles.GET("/users", h.Profile.ListUsers)
			profiles.GET("/institutions", h.Profile.ListInstitutions)
			profiles.GET("/stats", h.Profile.Stats)
		}

		tests := api.Group("/tests")
		{
			tests.POST("", requireAuth, institution, h.Test.CreateTest)
			tests.GET("", h.Test.ListTests)
			tests.GET("/my-tests", requireAuth, institution, h.Test.ListMyTests)
			tests.GET("/:id", h.Test.GetTest)
			tests.GET("/:id/stats", h.Test.GetTestStats)
			tests.PUT("/:id", requireAuth, institution, h.Test.UpdateTest)
			tests.POST("/:id/publish", requireAuth, institution, h.Test.PublishTest)
			tests.POST("/:id/unpublish", requireAuth, institution, h.Test.UnpublishTest)
			tests.DELETE("/:id", requireAuth, institution, h.Test.DeleteTest)
		}

		questions := api.Group("/questions")
		{
			questions.POST("/mcq", requireAuth, institution, h.Question.CreateMCQQuestion)
			questions.POST("/theory", requireAuth, institution, h.Question.CreateTheoryQuestion)
			questions.POST("/coding", requireAuth, institution, h.Question.CreateCodingQuestion)
			questions.GET("/test/:test_id", h.Question.ListByTest)
			questions.GET("/:id", h.Question.GetQuestion)
			questions.PUT("/:id", requireAuth, institution, h.Question.UpdateQuestion)
			questions.PUT("/:id/mcq-options", requireAuth, institution, h.Question.UpdateMCQOptions)
			questions.PUT("/:id/theory-details", requireAuth, institution, h.Question.UpdateTheoryDetails)
			questions.PUT("/:id/coding-details", requireAuth, institution, h.Question.UpdateCodingDetails)
			questions.DELETE("/:id", requireAuth, institution, h.Question.DeleteQuestion)
		}
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to Profile & Test API!",
			"version": apiVersion,
			"endpoints": gin.H{
				"auth":      prefix + "/auth",
				"profiles":  prefix + "/profiles",
				"tests":     prefix + "/tests",
				"questions": prefix + "/questions",
			},
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "API is running!"})
	})

	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
}
