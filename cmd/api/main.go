package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/rohithwtcrofficial/roastery-backoffice/internal/aws"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/config"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/handlers"
	"github.com/rohithwtcrofficial/roastery-backoffice/internal/logging"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterOrdersRoutes(r, cfg)
	handlers.RegisterAdminUserRoutes(r, cfg)

	return r
}

func main() {
	appCfg := config.Load()

	logger, err := logging.New(appCfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	cfg := handlers.HandlerConfig{
		DynamoDBClient:   clients.DynamoDB,
		SQSClient:        clients.SQS,
		IdempotencyTable: appCfg.IdempotencyTable,
		OrdersTable:      appCfg.OrdersTable,
		CustomersTable:   appCfg.CustomersTable,
		AdminUsersTable:  appCfg.AdminUsersTable,
		QueueURL:         appCfg.OrderEventsQueueURL,
		TTLWindow:        48 * time.Hour,
		Log:              logger,
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		logger.Infow("running local server", "addr", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
