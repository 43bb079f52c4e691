package main

import (
	"fmt"
	"log"
	"os"

	"github.com/you/investorportal/internal/infrastructure/database"
)

// Connection smoke test for local environment setup.
func main() {
	dsn := "host=localhost user=portal password=portal dbname=portal port=5432 sslmode=disable"
	if envDSN := os.Getenv("TEST_DATABASE_DSN"); envDSN != "" {
		dsn = envDSN
	}

	fmt.Println("Database Connection Test")
	fmt.Println("========================")
	fmt.Printf("Connecting to: %s\n", dsn)

	db, err := database.Open(dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	fmt.Println("✓ Database connection successful")

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run auto-migration: %v", err)
	}
	fmt.Println("✓ AutoMigrate completed successfully")

	for _, table := range []string{"investors", "otp_challenges", "sessions", "linked_accounts", "agreements", "invite_links", "share_links", "badges", "casbin_rule"} {
		var count int64
		if err := db.Raw(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count).Error; err != nil {
			log.Fatalf("Failed to query %s table: %v", table, err)
		}
		fmt.Printf("✓ %s table accessible (current count: %d)\n", table, count)
	}

	fmt.Println("\nDatabase setup verification completed successfully.")
}
