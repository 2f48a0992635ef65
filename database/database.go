package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"lms/models"
	"lms/models/learning"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

const connectAttempts = 3

// ConnectDb establishes a connection to PostgreSQL.
// Transient connect failures are retried a bounded number of times here so
// the workflow logic never has to.
func ConnectDb() {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}
		log.Printf("Database connect attempt %d/%d failed: %v", attempt, connectAttempts, err)
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	// Run database migrations
	RunMigrations(db)

	// Save database instance globally
	Database = DbInstance{Db: db}
}

// RunMigrations performs database migrations. Exposed so tests can migrate
// an in-memory database with the same schema.
func RunMigrations(db *gorm.DB) {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&learning.Course{},
		&learning.Enrollment{},
		&learning.Assessment{},
		&learning.AssessmentResult{},
		&learning.Certificate{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Partial unique indexes backing the uniqueness invariants the engine
	// relies on: one active enrollment per (student, course), one
	// non-rejected certificate per (student, course). AutoMigrate cannot
	// express predicates, so they are created directly.
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_enrollments_active
			ON enrollments (student_id, course_id)
			WHERE status IN ('pending', 'approved') AND is_deleted = false`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_certificates_open
			ON certificates (student_id, course_id)
			WHERE status IN ('pending', 'verified') AND is_deleted = false`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			log.Fatalf("Index migration failed: %v", err)
		}
	}

	log.Println("Migrations completed successfully.")
}
