package db

import (
	"context"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin creates the bootstrap admin account if it does not exist yet.
func SeedAdmin(ctx context.Context, database *Database) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	var count int
	err := database.ExecQueryRow(ctx, "SELECT COUNT(*) FROM users WHERE email = $1", adminEmail).Scan(&count)
	if err != nil {
		log.Fatal(err)
	}

	if count > 0 {
		log.Println("Admin user already exists.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	_, err = database.Exec(ctx, `
        INSERT INTO users (id, name, email, password, role, verified, account_status)
        VALUES ($1, $2, $3, $4, 'admin', TRUE, 'active')
    `, "USR-ADMIN", "Administrator", adminEmail, string(hashed))
	if err != nil {
		log.Fatal(err)
	}
	log.Println("Admin user created successfully.")
}
