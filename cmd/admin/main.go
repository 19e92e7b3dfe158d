package main

import (
	"fmt"
	"log"
	"os"

	"civicpulse/backend/internal/config"
	"civicpulse/backend/internal/models"
	"civicpulse/backend/internal/storage"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: migrate | recount-votes [complaint_id] | audit <complaint_id>")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "migrate":
		if err := storageSvc.Migrate(); err != nil {
			log.Fatalf("Error running migrations: %v", err)
		}
		fmt.Println("Migrations complete.")

	case "recount-votes":
		// Rebuilds the cached upvote_count aggregate from the vote rows.
		filter := storage.ComplaintFilter{}
		complaints, err := storageSvc.ListComplaints(filter)
		if err != nil {
			log.Fatalf("Error listing complaints: %v", err)
		}
		if len(os.Args) > 2 {
			complaint, err := storageSvc.GetComplaintByID(os.Args[2])
			if err != nil {
				log.Fatalf("Error loading complaint: %v", err)
			}
			complaints = []models.Complaint{*complaint}
		}

		repaired := 0
		for _, complaint := range complaints {
			count, err := storageSvc.CountUpvotes(complaint.ID)
			if err != nil {
				log.Fatalf("Error counting votes for %s: %v", complaint.ID, err)
			}
			if int(count) == complaint.UpvoteCount {
				continue
			}
			if err := storageSvc.SetUpvoteCount(complaint.ID, int(count)); err != nil {
				log.Fatalf("Error repairing count for %s: %v", complaint.ID, err)
			}
			fmt.Printf("Repaired %s: %d -> %d\n", complaint.ID, complaint.UpvoteCount, count)
			repaired++
		}
		fmt.Printf("Checked %d complaints, repaired %d.\n", len(complaints), repaired)

	case "audit":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin audit <complaint_id>")
			os.Exit(1)
		}
		entries, err := storageSvc.ListStatusLog(os.Args[2])
		if err != nil {
			log.Fatalf("Error loading status log: %v", err)
		}
		for _, entry := range entries {
			old := "-"
			if entry.OldStatus != nil {
				old = string(*entry.OldStatus)
			}
			fmt.Printf("%s  %s -> %s  by %s\n", entry.ChangedAt.Format("2006-01-02 15:04:05"), old, entry.NewStatus, entry.ChangedBy)
		}

	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}
