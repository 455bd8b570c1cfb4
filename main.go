package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/sarwanshoes/store-backend/database"
	"github.com/sarwanshoes/store-backend/internal/catalog"
	"github.com/sarwanshoes/store-backend/internal/models"
	"github.com/sarwanshoes/store-backend/internal/routes"
	"github.com/sarwanshoes/store-backend/internal/services"
	"github.com/sarwanshoes/store-backend/internal/session"
	"github.com/sarwanshoes/store-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		err := godotenv.Load(".env")
		if err != nil {
			err = godotenv.Load("environments/.env.development")
			if err != nil {
				log.Println("⚠️  No .env file found - checking environment variables")
			}
		}
	}

	whatsappToken := os.Getenv("WHATSAPP_TOKEN")
	if whatsappToken == "" || os.Getenv("PHONE_NUMBER_ID") == "" {
		log.Println("⚠️  WhatsApp credentials not found - outbound messages will be limited")
	}

	// Initialize order storage
	var store storage.Store
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		if err := database.DB.AutoMigrate(&models.Order{}); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}
	storage.SetStore(store)

	// Initialize session storage
	var sessions session.Store
	var err error
	if os.Getenv("SESSION_STORE") == "redis" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		sessions, err = session.NewStore(session.StoreTypeRedis,
			session.WithRedisClient(redisClient),
			session.WithRedisTTL(session.DefaultIdleTTL),
		)
		if err != nil {
			log.Fatal("Failed to initialize Redis session store:", err)
		}
		log.Println("✅ Using Redis session storage")
	} else {
		sessions, err = session.NewStore(session.StoreTypeMemory)
		if err != nil {
			log.Fatal("Failed to initialize session store:", err)
		}
		log.Println("✅ Using in-memory session storage")
	}

	// Initialize the WhatsApp messenger
	var messenger services.Messenger
	whatsappService, err := services.NewWhatsAppService()
	if err != nil {
		log.Printf("⚠️  Warning: WhatsApp service not initialized: %v", err)
	} else {
		messenger = whatsappService
		services.SetMessenger(messenger)
		log.Println("✅ WhatsApp service initialized")
	}

	// Load the catalog and wire the conversation engine
	cat := catalog.New()
	orderService := services.NewOrderService(store)
	flow := services.NewFlowService(sessions, orderService, cat, messenger)

	// Start the session reaper
	reaper := session.NewReaper(sessions, session.DefaultIdleTTL, session.DefaultSweepInterval)
	reaper.Start()

	log.Println("✅ All services initialized")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Sarwan Shoes Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Health check endpoint with service status
	app.Get("/", func(c *fiber.Ctx) error {
		response := fiber.Map{
			"service":     "Sarwan Shoes Backend API",
			"version":     "1.0.0",
			"status":      "healthy",
			"environment": getEnvironment(),
			"storage":     getStorageType(),
			"whatsapp": fiber.Map{
				"configured": whatsappToken != "",
			},
			"catalog": fiber.Map{
				"products": len(cat.Products()),
			},
			"sessions": flow.ActiveSessions(c.Context()),
		}

		if os.Getenv("USE_MEMORY_STORE") != "true" && database.DB != nil {
			sqlDB, err := database.DB.DB()
			dbStatus := "connected"
			if err != nil {
				dbStatus = "error: " + err.Error()
			} else if err := sqlDB.Ping(); err != nil {
				dbStatus = "error: " + err.Error()
			}

			orderCount, _ := store.CountOrders()
			response["database"] = fiber.Map{
				"status": dbStatus,
				"orders": orderCount,
			}
		}

		return c.JSON(response)
	})

	// Health check endpoint for monitoring
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		statusCode := 200

		if os.Getenv("USE_MEMORY_STORE") != "true" && database.DB != nil {
			sqlDB, err := database.DB.DB()
			if err != nil || sqlDB.Ping() != nil {
				status = "unhealthy"
				statusCode = 503
			}
		}

		return c.Status(statusCode).JSON(fiber.Map{
			"status": status,
			"services": fiber.Map{
				"database": status == "healthy",
				"whatsapp": messenger != nil,
			},
		})
	})

	// Setup routes
	routes.SetupRoutes(app, store, cat, flow)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Gracefully shutting down...")
		log.Println("⏹️  Stopping session reaper...")
		reaper.Stop()
		log.Println("⏹️  Closing session store...")
		_ = sessions.Close()
		log.Println("⏹️  Shutting down server...")
		_ = app.Shutdown()
	}()

	log.Println("========================================")
	log.Printf("🚀 Sarwan Shoes Backend starting on port %s", port)
	log.Printf("📊 Storage: %s", getStorageType())
	log.Printf("🌍 Environment: %s", getEnvironment())
	log.Printf("📱 WhatsApp: %s", getWhatsAppStatus(whatsappToken))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvironment() string {
	if os.Getenv("INSTANCE_CONNECTION_NAME") != "" {
		return "Production (Cloud Run)"
	}
	return "Development (Local)"
}

func getStorageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func getWhatsAppStatus(token string) string {
	if token == "" {
		return "Not configured"
	}
	return "Configured"
}
