package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"marketChat/configs"
	"marketChat/internal/handlers"
	"marketChat/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	httpServer *HttpServer
	once       sync.Once
)

type HttpServer struct {
	ctx         context.Context
	config      *configs.Config
	router      *gin.Engine
	hub         *models.SocketHub
	restHandler *handlers.RestHandler
	chatHandler *handlers.SocketChatHandler
}

func NewHttpServer(
	ctx context.Context,
	config *configs.Config,
	hub *models.SocketHub,
	restHandler *handlers.RestHandler,
	chatHandler *handlers.SocketChatHandler,
) *HttpServer {
	once.Do(func() {
		httpServer = &HttpServer{
			ctx:         ctx,
			config:      config,
			hub:         hub,
			restHandler: restHandler,
			chatHandler: chatHandler,
		}
	})
	return httpServer
}

func (hs *HttpServer) Run() {
	hs.initializeGin()
	hs.setupRestfulRoutes()
	hs.setupWebSocketRoutes()

	hs.chatHandler.StartSocket()

	server := hs.startServer()

	hs.waitForShutdown(server)
}

func (hs *HttpServer) initializeGin() {
	hs.router = gin.Default()
	hs.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
}

func (hs *HttpServer) setupRestfulRoutes() {
	hs.router.POST("/register", hs.restHandler.Register)
	hs.router.POST("/login", hs.restHandler.Login)

	authorized := hs.router.Group("/")
	authorized.Use(hs.restHandler.MustAuthenticateMiddleware())
	{
		authorized.GET("/users", hs.restHandler.GetAllUsersWithPagination)
		authorized.PUT("/me/allow-messages", hs.restHandler.SetAllowMessages)

		authorized.GET("/conversations", hs.restHandler.GetUserConversations)
		authorized.POST("/conversations", hs.restHandler.StartConversation)
		authorized.GET("/conversations/:id", hs.restHandler.GetConversation)
		authorized.GET("/conversations/:id/messages", hs.restHandler.GetMessagesByConversationID)
		authorized.POST("/conversations/:id/read", hs.restHandler.MarkConversationRead)
		authorized.DELETE("/conversations/:id", hs.restHandler.DeleteConversation)

		authorized.POST("/messages", hs.restHandler.SendMessage)
		authorized.DELETE("/messages/:id", hs.restHandler.DeleteMessage)
		authorized.GET("/messages/unread-total", hs.restHandler.GetUnreadTotal)
		authorized.POST("/messages/attachment", hs.restHandler.UploadMessageAttachment)
	}
}

func (hs *HttpServer) setupWebSocketRoutes() {
	hs.router.GET("/ws/chat", hs.chatHandler.HandleSocketChatRoute)
}

func (hs *HttpServer) startServer() *http.Server {
	port := hs.config.Viper.GetInt("server.port")
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: hs.router,
		// Bounds the window between TCP accept and a verified identity on
		// the socket handshake path.
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server started on :%d", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	return server
}

func (hs *HttpServer) waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if err := server.Shutdown(hs.ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	hs.hub.CloseAll()

	log.Println("Server exiting")
}
