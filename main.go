package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"friend-map-system/handlers"
	"friend-map-system/models"
	"friend-map-system/services"
	"friend-map-system/utils"
	"friend-map-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB, CSV imports are small
	})

	// The frontend sends the session cookie cross-origin, so credentials
	// must be allowed and origins listed explicitly.
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-Session-ID",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	r2Enabled, err := utils.InitR2()
	if err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}
	if !r2Enabled {
		log.Println("⚠️  R2 not configured, exports will be written to local uploads/ directory")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.UserSession{},
		&models.Friendship{},
		&models.ImportedFriend{},
		&models.Group{},
		&models.Meetup{},
		&models.Message{},
		&models.UserStats{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	geocoder := services.NewGeocodingClient()

	authService := services.NewAuthService(db)
	userService := services.NewUserService(db)
	friendService := services.NewFriendService(db)
	importedService := services.NewImportedService(db, geocoder)
	groupService := services.NewGroupService(db)
	meetupService := services.NewMeetupService(db)
	messageService := services.NewMessageService(db)
	statsService := services.NewStatsService(db)
	exportService := services.NewExportService(db, statsService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	geocodeWorker := workers.NewGeocodeWorker(db, geocoder)
	go geocodeWorker.Run(ctx, 30*time.Second)

	statsService.StartStatsScheduler()

	handlers.SetupAuthRoutes(app, db, authService, userService)
	handlers.SetupFriendRoutes(app, db, friendService, importedService, groupService)
	handlers.SetupMeetupRoutes(app, db, meetupService, messageService)
	handlers.SetupStatsRoutes(app, db, statsService, exportService)

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "friend-map-system"})
	})

	app.Static("/uploads", "./uploads")

	go func() {
		if err := app.Listen(":8001"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:8001")
	log.Println("✅ Geocode worker running (every 30s)")
	log.Println("✅ Daily stats recalculation scheduled")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
