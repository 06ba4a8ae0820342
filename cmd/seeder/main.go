// cmd/seeder/main.go
//
// Inserts a few sample interactions for local development: some already
// due for dispatch, one scheduled in the future, one legacy-style row.
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/config"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/db"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/model"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	database, err := db.Init(cfg)
	if err != nil {
		log.Fatalf("failed to init database: %v", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	repo := &repository.InteractionRepository{DB: database}

	samples := []struct {
		customerID string
		email      string
		name       string
		subject    string
		sendAfter  time.Duration
	}{
		{"seed-cust-1", "alice@example.com", "Alice", "Order never arrived", -2 * time.Hour},
		{"seed-cust-2", "bob@example.com", "Bob", "Refund request", -30 * time.Minute},
		{"seed-cust-3", "carol@example.com", "Carol", "Question about sizing", 12 * time.Hour},
	}

	for _, s := range samples {
		data := model.InteractionData{
			"csid":    fmt.Sprintf("seed-%s", s.customerID),
			"subject": s.subject,
			"requester": map[string]interface{}{
				"email": s.email,
				"name":  s.name,
			},
		}
		interaction, err := repo.Save(s.customerID, model.InteractionTypeWebhookEvent, data, s.sendAfter)
		if err != nil {
			log.Printf("skipping %s: %v", s.customerID, err)
			continue
		}
		fmt.Printf("seeded interaction %d for %s (scheduled %s)\n",
			interaction.ID, s.customerID, interaction.RetentlyScheduledAt.Format(time.RFC3339))
	}

	fmt.Println("Database seeding completed successfully!")
}
