package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/campuspool/campuspool-backend/internal/database"
	"github.com/campuspool/campuspool-backend/internal/handlers"
	"github.com/campuspool/campuspool-backend/internal/middleware"
	"github.com/campuspool/campuspool-backend/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis (optional - listing cache and chat fan-out degrade
	// gracefully without it)
	if err := services.InitRedis(); err != nil {
		log.Printf("Redis initialization warning: %v", err)
	}

	// Initialize Storage (S3 or local fallback)
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	rides := services.NewRideService(db)
	chat := services.NewChatService(db)

	// Initialize WebSocket hub and the Redis relay feeding it
	hub := services.NewHub()
	go hub.Run()
	go services.RunChatRelay(context.Background(), hub)

	// Optional in-process lifecycle sweep; an external cron hitting the
	// maintenance endpoint works without it
	if interval := os.Getenv("SWEEP_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			log.Fatalf("Invalid SWEEP_INTERVAL: %v", err)
		}
		go func() {
			for range time.Tick(d) {
				completed, err := rides.CompleteOverdueRides(time.Now())
				if err != nil {
					log.Printf("Ride sweep failed: %v", err)
					continue
				}
				if completed > 0 {
					log.Printf("Ride sweep completed %d rides", completed)
					services.InvalidateRideList(context.Background())
				}
			}
		}()
	}

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Cron-Secret"}
	r.Use(cors.New(config))

	// Serve locally stored avatars
	r.Static("/uploads", "./uploads")

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// Lifecycle sweep, guarded by the cron secret
		api.POST("/maintenance/complete-rides", handlers.CompleteOverdueRides(rides))

		// WebSocket connection, one per chat room
		api.GET("/ws/:chatRoomId", middleware.AuthMiddleware(), handlers.WebSocketHandler(chat, hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db, rides))
				users.PUT("/profile", handlers.UpdateProfile(db))
				users.POST("/avatar", handlers.UploadAvatar(db))
				users.GET("/history", handlers.GetRideHistory(rides))
			}

			rideRoutes := protected.Group("/rides")
			{
				rideRoutes.GET("", handlers.GetAvailableRides(rides))
				rideRoutes.POST("", handlers.CreateRide(rides))
				rideRoutes.GET("/my", handlers.GetMyRides(rides))
				rideRoutes.GET("/:id", handlers.GetRideDetails(rides))
				rideRoutes.DELETE("/:id", handlers.DeleteRide(rides))
				rideRoutes.POST("/:id/join", handlers.JoinRide(rides))
				rideRoutes.POST("/:id/leave", handlers.LeaveRide(rides))
			}

			protected.DELETE("/passengers/:id", handlers.RemovePassenger(rides))

			chats := protected.Group("/chats")
			{
				chats.GET("", handlers.GetUserChats(chat))
				chats.GET("/:id/messages", handlers.GetChatMessages(chat))
				chats.POST("/:id/messages", handlers.SendMessage(chat, hub))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
