package main

import (
	"log"

	"lms/config"
	controllers "lms/controllers/course"
	"lms/database"
	"lms/logger"
	courseRoutes "lms/routers/courseRoutes"
	"lms/services/learning"
	"lms/services/users"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	appLog, err := logger.New(config.AppConfig.AppEnv)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	db := database.Database.Db
	store := users.NewStore(db)

	opts := learning.Options{
		Logger:            appLog,
		OptimisticRetries: config.AppConfig.OptimisticRetries,
	}
	if config.AppConfig.RedisAddr != "" {
		locker, err := utils.NewRedisLocker(config.AppConfig.RedisAddr, config.AppConfig.LockTTL)
		if err != nil {
			appLog.Fatal("redis lock unavailable", "addr", config.AppConfig.RedisAddr, "error", err)
		}
		defer locker.Close()
		opts.Locker = locker
	}
	if mailer := utils.NewMailerFromConfig(config.AppConfig); mailer != nil {
		opts.Notifier = utils.NewEmailNotifier(mailer, appLog)
	} else {
		appLog.Warn("no email sender configured, notifications disabled")
	}
	svc := learning.NewService(db, store, opts)

	scheduler, err := utils.InitializeLearningScheduler(
		config.AppConfig.DiscountSweepSchedule,
		config.AppConfig.ReconcileSchedule,
		svc, svc, appLog,
	)
	if err != nil {
		appLog.Fatal("failed to start scheduler", "error", err)
	}
	defer scheduler.Stop()

	renderer := utils.NewCertificateRenderer(config.AppConfig.CertificateRendererURL, config.AppConfig.RendererTimeout)
	handler := controllers.NewHandler(svc, store, renderer, config.AppConfig.ThumbnailDir, appLog)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(fiberLogger.New(fiberLogger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	courseRoutes.SetupCourseRoutes(app, handler)
	courseRoutes.SetupAdminCourseRoutes(app, handler)

	appLog.Info("server starting", "port", config.AppConfig.Port)
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		appLog.Error("server stopped", "error", err)
	}
}
