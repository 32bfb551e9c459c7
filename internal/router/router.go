package router

import (
	"github.com/Cecile-Hirschauer/adaboards-api/internal/handler"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/middleware"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/pkg"
	redisrepo "github.com/Cecile-Hirschauer/adaboards-api/internal/repository/redis"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InitRouter 组装服务与路由。依赖在这里注入一次，handler 之间不共享全局状态
func InitRouter(db *gorm.DB, sessions *redisrepo.SessionRepository, producer *pkg.KafkaProducer, smtp pkg.SMTPConfig) *gin.Engine {
	r := gin.Default()

	membershipSvc := service.NewMembershipService(db, producer, smtp)
	userSvc := service.NewUserService(db, sessions)
	boardSvc := service.NewBoardService(db, membershipSvc)
	taskSvc := service.NewTaskService(db, membershipSvc)

	user := handler.NewUserHandler(userSvc)
	board := handler.NewBoardHandler(boardSvc)
	member := handler.NewMemberHandler(membershipSvc)
	task := handler.NewTaskHandler(taskSvc)

	auth := middleware.AuthMiddleware(sessions)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", user.Register)
		authGroup.POST("/login", user.Login)
		authGroup.POST("/refresh", user.TokenRefresh)
		authGroup.POST("/logout", auth, user.Logout)
	}

	usersGroup := api.Group("/users")
	usersGroup.Use(auth)
	{
		usersGroup.GET("/search", user.Search)
	}

	boardsGroup := api.Group("/boards")
	boardsGroup.Use(auth)
	{
		boardsGroup.GET("", board.List)
		boardsGroup.POST("", board.Create)
		boardsGroup.GET("/:boardId", board.Get)
		boardsGroup.PATCH("/:boardId", board.Update)
		boardsGroup.DELETE("/:boardId", board.Delete)

		boardsGroup.GET("/:boardId/members", member.List)
		boardsGroup.POST("/:boardId/members", member.Add)
		boardsGroup.PATCH("/:boardId/members/:userId", member.UpdateRole)
		boardsGroup.DELETE("/:boardId/members/:userId", member.Remove)

		boardsGroup.GET("/:boardId/tasks", task.List)
		boardsGroup.POST("/:boardId/tasks", task.Create)
		boardsGroup.PATCH("/:boardId/tasks/:taskId", task.Update)
		boardsGroup.DELETE("/:boardId/tasks/:taskId", task.Delete)
	}

	return r
}
