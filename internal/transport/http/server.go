package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "todoweb/internal/app"
	"todoweb/internal/bootstrap"
	"todoweb/internal/flash"
	"todoweb/internal/platform/rabbitmq"
	"todoweb/internal/repository"
	"todoweb/internal/transport/http/handler"
	"todoweb/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.LoadHTMLGlob(app.Config.App.TemplateGlob)

	userRepo := repository.NewUserRepository(app.DB)
	taskRepo := repository.NewTaskRepository(app.DB)
	publisher := rabbitmq.NewEventPublisher(app.MQConn, app.Config.RabbitMQ.ActivityQueue)

	accountService := appsvc.NewAccountService(userRepo, publisher)
	taskService := appsvc.NewTaskService(taskRepo, publisher)

	flashStore := flash.NewRedisStore(app.Redis, time.Duration(app.Config.Redis.FlashTTLSeconds)*time.Second)
	sessionTTL := time.Duration(app.Config.Session.ExpireMinute) * time.Minute

	accountHandler := handler.NewAccountHandler(accountService, flashStore, app.Config.Session.Secret, sessionTTL)
	taskHandler := handler.NewTaskHandler(taskService, flashStore)
	healthHandler := handler.NewHealthHandler(app)

	router.GET("/healthz", healthHandler.Check)
	router.GET("/register", accountHandler.ShowRegister)
	router.POST("/register", accountHandler.Register)
	router.GET("/login", accountHandler.ShowLogin)
	router.POST("/login", accountHandler.Login)

	guarded := router.Group("/")
	guarded.Use(middleware.RequireSession(app.Config.Session.Secret, accountService, flashStore))
	guarded.GET("", taskHandler.List)
	guarded.POST("", taskHandler.Create)
	guarded.GET("/logout", accountHandler.Logout)

	return router
}
