package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/bazaar/internal/app/controllers"
	"github.com/yigit/bazaar/internal/middleware"
)

// Controllers bundles the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Auth     *controllers.AuthController
	User     *controllers.UserController
	Ad       *controllers.AdController
	Question *controllers.QuestionController
	Answer   *controllers.AnswerController
}

// SetupRouter configures all application routes. The API is served at the
// root path and again under /api/v1.
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware, maxUploadMB int) {
	register(&router.RouterGroup, ctrl, authMiddleware, maxUploadMB)
	register(router.Group("/api/v1"), ctrl, authMiddleware, maxUploadMB)
}

func register(r *gin.RouterGroup, ctrl Controllers, authMiddleware *middleware.AuthMiddleware, maxUploadMB int) {
	upload := middleware.MaxBodySize(maxUploadMB)

	// --- Public routes ---
	r.GET("/ads", ctrl.Ad.GetAds)
	r.GET("/ads/:id", ctrl.Ad.GetAdByID)
	r.GET("/adsByUser/:userId", ctrl.Ad.GetAdsByUser)
	r.GET("/adsBySearch", ctrl.Ad.SearchAds)
	r.GET("/adsSearchParams", ctrl.Ad.GetSearchParams)

	r.GET("/questions", ctrl.Question.GetQuestions)
	r.GET("/questions/:id", ctrl.Question.GetQuestionByID)
	r.GET("/questionsByUserId/:id", ctrl.Question.GetQuestionsByUser)

	r.GET("/answers", ctrl.Answer.GetAnswers)
	r.GET("/answers/:id", ctrl.Answer.GetAnswerByID)
	r.GET("/answersByQuestion/:id", ctrl.Answer.GetAnswersByQuestion)
	r.GET("/answersByUserId/:id", ctrl.Answer.GetAnswersByUser)

	r.POST("/user/register", upload, ctrl.Auth.Register)
	r.POST("/user/login", ctrl.Auth.Login)

	// --- Authenticated routes ---
	authenticated := r.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/ads", upload, ctrl.Ad.CreateAd)
		authenticated.PATCH("/ads/:id", ctrl.Ad.UpdateAd)
		authenticated.DELETE("/ads/:id", ctrl.Ad.DeleteAd)

		authenticated.POST("/questions", ctrl.Question.CreateQuestion)
		authenticated.PATCH("/questions/:id", ctrl.Question.UpdateQuestion)
		authenticated.DELETE("/questions/:id", ctrl.Question.DeleteQuestion)

		authenticated.POST("/answers", ctrl.Answer.CreateAnswer)
		authenticated.PATCH("/answers/:id", ctrl.Answer.UpdateAnswer)
		authenticated.DELETE("/answers/:id", ctrl.Answer.DeleteAnswer)

		authenticated.GET("/user", ctrl.User.GetUsers)
		authenticated.GET("/user/:id", ctrl.User.GetUserByID)
		authenticated.GET("/getUserByEmail", ctrl.User.GetUserByEmail)
		authenticated.GET("/searchUsersByEmail", ctrl.User.SearchUsersByEmail)
		authenticated.PATCH("/user/:id", upload, ctrl.User.UpdateUser)
		authenticated.DELETE("/user", ctrl.User.DeleteUserByEmail)
		authenticated.DELETE("/user/:id", ctrl.User.DeleteUserByID)
		authenticated.PATCH("/promoteUser/:id", ctrl.User.PromoteUser)
		authenticated.PATCH("/demoteUser/:id", ctrl.User.DemoteUser)
	}
}
