package cmd

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"activity_logs", "time_entries", "ticket_comments", "tickets", "project_members", "projects", "users", "companies"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		companyName := "Acme Studio"
		var companyID string
		row := db.Raw("SELECT id FROM companies WHERE name = ?", companyName).Row()
		if err := row.Scan(&companyID); err != nil {
			companyID = uuid.NewString()
			if err := db.Exec("INSERT INTO companies (id, name, description, created_at, updated_at) VALUES (?, ?, ?, now(), now())",
				companyID, companyName, "Seeded development tenant").Error; err != nil {
				log.Fatalf("failed to insert company: %v", err)
			}
			fmt.Println("Seeded company:", companyName)
		} else {
			fmt.Println("company already exists:", companyName)
		}

		users := []struct {
			Email    string
			FullName string
			Role     string
		}{
			{"admin@acme.test", "Ada Admin", "admin"},
			{"pm@acme.test", "Parker Manager", "project_manager"},
			{"dev@acme.test", "Devin Member", "team_member"},
			{"client@acme.test", "Casey Client", "client"},
		}

		userIDs := make(map[string]string, len(users))
		for _, u := range users {
			var id string
			row := db.Raw("SELECT id FROM users WHERE email = ?", u.Email).Row()
			if err := row.Scan(&id); err == nil {
				fmt.Println("user already exists:", u.Email)
				userIDs[u.Role] = id
				continue
			}

			id = uuid.NewString()
			if err := db.Exec("INSERT INTO users (id, company_id, email, full_name, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, true, now(), now())",
				id, companyID, u.Email, u.FullName, string(hash), u.Role).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			userIDs[u.Role] = id
			fmt.Println("Seeded user:", u.Email, "role:", u.Role)
		}

		projectName := "Website Relaunch"
		var projectID string
		row = db.Raw("SELECT id FROM projects WHERE company_id = ? AND name = ?", companyID, projectName).Row()
		if err := row.Scan(&projectID); err != nil {
			projectID = uuid.NewString()
			if err := db.Exec("INSERT INTO projects (id, company_id, name, description, status, created_by, created_at, updated_at) VALUES (?, ?, ?, ?, 'active', ?, now(), now())",
				projectID, companyID, projectName, "Seeded sample project", userIDs["project_manager"]).Error; err != nil {
				log.Fatalf("failed to insert project: %v", err)
			}
			fmt.Println("Seeded project:", projectName)
		}

		for _, role := range []string{"project_manager", "team_member", "client"} {
			var exists int
			if err := db.Raw("SELECT 1 FROM project_members WHERE project_id = ? AND user_id = ?", projectID, userIDs[role]).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO project_members (id, project_id, user_id, role, joined_at) VALUES (?, ?, ?, 'member', now())",
				uuid.NewString(), projectID, userIDs[role]).Error; err != nil {
				log.Fatalf("failed to insert project member: %v", err)
			}
		}
		fmt.Println("Seeded project members")

		ticketTitle := "Set up landing page"
		var ticketID string
		row = db.Raw("SELECT id FROM tickets WHERE project_id = ? AND title = ?", projectID, ticketTitle).Row()
		if err := row.Scan(&ticketID); err != nil {
			ticketID = uuid.NewString()
			if err := db.Exec("INSERT INTO tickets (id, project_id, title, description, status, priority, assigned_to, created_by, created_at, updated_at) VALUES (?, ?, ?, ?, 'todo', 'high', ?, ?, now(), now())",
				ticketID, projectID, ticketTitle, "Seeded sample ticket", userIDs["team_member"], userIDs["project_manager"]).Error; err != nil {
				log.Fatalf("failed to insert ticket: %v", err)
			}
			fmt.Println("Seeded ticket:", ticketTitle)
		}

		fmt.Println("Seeding complete. All users share the password:", password)
	},
}
