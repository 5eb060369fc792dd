package router

import (
	"Videoboxd/internal/handler"
	"Videoboxd/internal/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(
	jwtSecret string,
	userHandler handler.UserHandler,
	videoHandler handler.VideoHandler,
	categoryHandler handler.CategoryHandler,
	reviewHandler handler.ReviewHandler,
	likeHandler handler.LikeHandler,
	commentHandler handler.CommentHandler,
) *gin.Engine {
	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/videos", videoHandler.ListVideos)
		apiV1.GET("/videos/:identifier", videoHandler.GetVideo)
		apiV1.GET("/search", videoHandler.SearchVideos)

		apiV1.GET("/categories", categoryHandler.ListCategories)
		apiV1.GET("/categories/:identifier", categoryHandler.GetCategory)

		apiV1.GET("/reviews", reviewHandler.ListReviews)
		apiV1.GET("/reviews/:review_id", reviewHandler.GetReview)
		apiV1.GET("/reviews/:review_id/comments", commentHandler.GetComments)

		userGroup := apiV1.Group("/users")
		{
			userGroup.POST("/register", userHandler.Register)
			userGroup.POST("/login", userHandler.Login)
			userGroup.GET("", userHandler.ListUsers)
			userGroup.GET("/:identifier", userHandler.GetUser)
		}

		authorized := apiV1.Group("/")
		authorized.Use(middleware.AuthMiddleware(jwtSecret))
		{
			authorized.GET("/profile", userHandler.GetProfile)

			authorized.POST("/videos", videoHandler.CreateVideo)
			authorized.POST("/videos/submit", videoHandler.SubmitVideo)
			authorized.PATCH("/videos/:video_id", videoHandler.UpdateVideo)
			authorized.DELETE("/videos/:video_id", videoHandler.DeleteVideo)

			authorized.POST("/videos/:video_id/reviews", reviewHandler.CreateReview)
			authorized.PATCH("/reviews/:review_id", reviewHandler.UpdateReview)
			authorized.DELETE("/reviews/:review_id", reviewHandler.DeleteReview)

			authorized.POST("/reviews/:review_id/like", likeHandler.LikeReview)
			authorized.DELETE("/reviews/:review_id/like", likeHandler.UnlikeReview)

			authorized.POST("/reviews/:review_id/comments", commentHandler.CreateComment)
		}
	}

	return r
}
