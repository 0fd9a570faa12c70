package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"lms/config"
	"lms/database"
	"lms/logger"
	"lms/middleware"
	"lms/models"
	"lms/services/learning"
	"lms/services/users"

	"github.com/google/uuid"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	migrateCmd = kingpin.Command("migrate", "Create or update the database schema")

	sweepCmd = kingpin.Command("sweep-discounts", "Clear every course discount whose expiry has passed")

	reconcileCmd = kingpin.Command("reconcile-certificates", "Rebuild user-side enrollment and certificate records from enrollments")

	importCmd    = kingpin.Command("import-lessons", "Append lessons from a CSV file (title,content[,sequence]) to a course")
	importCourse = importCmd.Flag("course", "ID of the course to append to").Required().String()
	importFile   = importCmd.Flag("file", "Path to the CSV file").Required().ExistingFile()

	tokenCmd  = kingpin.Command("token", "Print a signed API token for an existing user")
	tokenUser = tokenCmd.Flag("user", "ID of the user").Required().String()
)

// operator is the identity CLI actions run as.
var operator = learning.Actor{ID: uuid.Nil, Role: models.RoleAdmin}

func main() {
	kingpin.UsageTemplate(kingpin.CompactUsageTemplate).Version("0.1")
	kingpin.CommandLine.Help = "LMS administration utilities"
	command := kingpin.Parse()

	config.LoadConfig()
	database.ConnectDb()

	appLog, err := logger.New(config.AppConfig.AppEnv)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	ctx := context.Background()
	db := database.Database.Db
	store := users.NewStore(db)
	svc := learning.NewService(db, store, learning.Options{Logger: appLog})

	switch command {
	case migrateCmd.FullCommand():
		// ConnectDb already migrated
		appLog.Info("schema is up to date")
	case sweepCmd.FullCommand():
		cleared, err := svc.SweepExpiredDiscounts(ctx)
		if err != nil {
			appLog.Fatal("discount sweep failed", "error", err)
		}
		appLog.Info("discount sweep finished", "cleared", cleared)
	case reconcileCmd.FullCommand():
		created, err := svc.ReconcileUserMirror(ctx)
		if err != nil {
			appLog.Fatal("reconciliation failed", "error", err)
		}
		appLog.Info("reconciliation finished", "rows_created", created)
	case importCmd.FullCommand():
		courseID, err := uuid.Parse(*importCourse)
		if err != nil {
			appLog.Fatal("invalid course id", "course", *importCourse)
		}
		f, err := os.Open(*importFile)
		if err != nil {
			appLog.Fatal("failed to open CSV file", "file", *importFile, "error", err)
		}
		defer f.Close()
		lessons, err := readLessonsCSV(f)
		if err != nil {
			appLog.Fatal("failed to read CSV", "file", *importFile, "error", err)
		}
		c, err := svc.AddLessons(ctx, operator, courseID, lessons)
		if err != nil {
			appLog.Fatal("lesson import failed", "course_id", courseID, "error", err)
		}
		appLog.Info("lessons imported", "course_id", courseID, "imported", len(lessons), "total_lessons", c.TotalLessons)
	case tokenCmd.FullCommand():
		userID, err := uuid.Parse(*tokenUser)
		if err != nil {
			appLog.Fatal("invalid user id", "user", *tokenUser)
		}
		user, err := store.FindByID(ctx, nil, userID)
		if err != nil {
			appLog.Fatal("user lookup failed", "user_id", userID, "error", err)
		}
		token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
		if err != nil {
			appLog.Fatal("failed to sign token", "error", err)
		}
		fmt.Println(token)
	}
}
