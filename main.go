package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"collective-chat-service/internal/auth"
	"collective-chat-service/internal/db"
	"collective-chat-service/internal/handlers"
	"collective-chat-service/internal/middleware"
	"collective-chat-service/internal/observability"
	"collective-chat-service/internal/queue"
	"collective-chat-service/internal/rabbitmq"
	"collective-chat-service/internal/repositories"
	"collective-chat-service/internal/telemetry"
	"collective-chat-service/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found")
	}

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	publisher := rabbitmq.NewPublisher(os.Getenv("AMQP_URL"), getEnv("AMQP_EXCHANGE", "collective.events"))
	defer publisher.Close()
	log.Printf("event publisher mode=%s", rabbitmq.PublisherMode(publisher))
	observability.SetPublisher(publisher)

	audit := telemetry.NewAuditEmitter(publisher, "audit.chat_queue", "collective-chat-service", getEnv("ENVIRONMENT", "development"))

	verifier := auth.NewTokenVerifier(getEnv("JWT_SECRET", "dev-secret"))

	queueRepo := repositories.NewQueueRepo(database)
	groupChatRepo := repositories.NewGroupChatRepo(database)
	groupMessageRepo := repositories.NewGroupMessageRepo(database)
	directChatRepo := repositories.NewDirectChatRepo(database)
	directMessageRepo := repositories.NewDirectMessageRepo(database)

	queueService := queue.NewService(queueRepo, groupChatRepo)

	hub := ws.NewHub()

	queueHandler := handlers.NewQueueHandler(queueService, audit)
	groupChatHandler := handlers.NewGroupChatHandler(groupChatRepo, groupMessageRepo, hub, audit)
	directChatHandler := handlers.NewDirectChatHandler(directChatRepo, directMessageRepo, hub, audit)

	groupChatWS := ws.NewGroupChatWebSocketHandler(hub, groupChatRepo, verifier)
	directChatWS := ws.NewDirectChatWebSocketHandler(hub, directChatRepo, verifier)

	router := gin.Default()
	router.Use(otelgin.Middleware("collective-chat-service"))
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(verifier)

	api := router.Group("/api", authMiddleware)

	api.POST("/group-chat-queues", queueHandler.CreateQueue)
	api.GET("/group-chat-queues", queueHandler.ListQueues)
	api.POST("/group-chat-queues/:queue_id/join", queueHandler.JoinQueue)
	api.POST("/group-chat-queues/:queue_id/leave", queueHandler.LeaveQueue)
	api.DELETE("/group-chat-queues/:queue_id", queueHandler.CancelQueue)

	api.GET("/group-chats/active", groupChatHandler.ListActiveChats)
	api.GET("/group-chats/:chat_id/messages", groupChatHandler.GetMessages)
	api.POST("/group-chats/:chat_id/messages", groupChatHandler.PostMessage)

	api.POST("/direct-chats", directChatHandler.StartChat)
	api.GET("/direct-chats", directChatHandler.ListChats)
	api.GET("/direct-chats/:chat_id/messages", directChatHandler.GetMessages)
	api.POST("/direct-chats/:chat_id/messages", directChatHandler.PostMessage)
	api.DELETE("/direct-chats/:chat_id/me", directChatHandler.HideChat)

	router.GET("/ws/group-chats/:chat_id", groupChatWS.Handle)
	router.GET("/ws/direct-chats/:chat_id", directChatWS.Handle)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterDebugRoutes(router, audit, getEnv("DEBUG_ROUTES", "") == "true")

	port := getEnv("PORT", "8083")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
