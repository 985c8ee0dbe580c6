package app

import (
	"context"
	"sync"

	"marketChat/configs"
	"marketChat/internal/handlers"
	"marketChat/internal/models"
	"marketChat/internal/repositories"
	"marketChat/internal/servers/database"
	"marketChat/internal/servers/http"
	"marketChat/internal/services"

	"github.com/redis/go-redis/v9"
)

var (
	app  *App
	once sync.Once
)

type App struct {
	redis   *redis.Client
	ctx     context.Context
	configs *configs.Config
}

func GetApp() *App {
	once.Do(func() {
		app = &App{}
	})
	return app
}

func (app *App) LetsGo() {
	app.ctx = context.Background()
	app.initializeConfigs()
	app.initializeRedis()

	db := database.GetDB(app.configs)

	authRepo := repositories.NewAuthenticationRepository(db)
	authService := services.NewAuthenticationService(authRepo, app.configs)

	chatRepo := repositories.NewChatRepository(db)
	pushService := services.NewPushService(app.redis, app.ctx)
	notificationService := services.NewNotificationService(app.redis, app.ctx)
	chatService := services.NewChatService(chatRepo, authRepo, notificationService, pushService)

	minioService := services.NewMinioService(app.configs)
	fileManagerService := services.NewFileManagerService(minioService)

	hub := models.NewSocketHub()

	restHandler := handlers.NewRestHandler(
		authService,
		chatService,
		fileManagerService,
	)
	socketChatHandler := handlers.NewSocketChatHandler(app.redis, app.ctx, hub, chatService, authService)

	http.NewHttpServer(
		app.ctx,
		app.configs,
		hub,
		restHandler,
		socketChatHandler,
	).Run()
}

func (app *App) initializeRedis() {
	app.redis = redis.NewClient(&redis.Options{
		Addr: app.configs.Viper.GetString("redis.address"),
	})
}

func (app *App) initializeConfigs() {
	app.configs = configs.GetConfig()
}
