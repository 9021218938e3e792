package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/tabilog/tabilog/backend/internal/adapters/database"
	"github.com/tabilog/tabilog/backend/internal/application/services"
	"github.com/tabilog/tabilog/backend/internal/domain/entities"
	"github.com/tabilog/tabilog/backend/internal/infrastructure/clients/postgres"
	"github.com/tabilog/tabilog/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	userRepo := database.NewUserAdapter(pgClient)
	locationRepo := database.NewLocationAdapter(pgClient)
	visitRepo := database.NewVisitAdapter(pgClient)

	locationService := services.NewLocationService(locationRepo, nil)
	visitService := services.NewVisitService(visitRepo, nil)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				visit_photos,
				visits,
				locations,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	// 1. Seed users
	users := []*entities.User{
		{Username: "haruka"},
		{Username: "kenta"},
	}
	for _, u := range users {
		if err := userRepo.Create(ctx, u); err != nil {
			log.Printf("Failed to create user %s: %v", u.Username, err)
		}
	}
	seedUserID := users[0].ID

	// 2. Seed locations (well-known Tokyo area spots)
	locations := []*entities.Location{
		{Name: "東京タワー", Latitude: 35.6586, Longitude: 139.7454, Address: "東京都港区芝公園4-2-8", Description: "東京のシンボル", CreatedBy: seedUserID, UpdatedBy: seedUserID},
		{Name: "浅草寺", Latitude: 35.7148, Longitude: 139.7967, Address: "東京都台東区浅草2-3-1", Description: "都内最古の寺院", CreatedBy: seedUserID, UpdatedBy: seedUserID},
		{Name: "明治神宮", Latitude: 35.6764, Longitude: 139.6993, Address: "東京都渋谷区代々木神園町1-1", CreatedBy: seedUserID, UpdatedBy: seedUserID},
		{Name: "皇居東御苑", Latitude: 35.6852, Longitude: 139.7528, Address: "東京都千代田区千代田1-1", CreatedBy: seedUserID, UpdatedBy: seedUserID},
		{Name: "鎌倉大仏", Latitude: 35.3167, Longitude: 139.5358, Address: "神奈川県鎌倉市長谷4-2-28", CreatedBy: seedUserID, UpdatedBy: seedUserID},
	}
	for _, l := range locations {
		if err := locationService.Create(ctx, l); err != nil {
			log.Printf("Failed to create location %s: %v", l.Name, err)
		}
	}

	// 3. Seed visits spread across recent months
	day := func(offset int) time.Time {
		return time.Now().UTC().AddDate(0, 0, -offset).Truncate(24 * time.Hour)
	}
	visits := []*entities.Visit{
		{LocationID: locations[0].ID, VisitDate: day(3), Notes: "夜景が綺麗だった", Rating: 5, CreatedBy: seedUserID, UpdatedBy: seedUserID},
		{LocationID: locations[1].ID, VisitDate: day(10), Notes: "仲見世通りで食べ歩き", Rating: 4, CreatedBy: seedUserID, UpdatedBy: seedUserID},
		{LocationID: locations[1].ID, VisitDate: day(40), Notes: "初詣で大混雑", Rating: 3, CreatedBy: users[1].ID, UpdatedBy: users[1].ID},
		{LocationID: locations[2].ID, VisitDate: day(21), Notes: "朝の散歩に最適", Rating: 5, CreatedBy: seedUserID, UpdatedBy: seedUserID},
		{LocationID: locations[4].ID, VisitDate: day(60), Rating: 4, CreatedBy: users[1].ID, UpdatedBy: users[1].ID},
	}
	for _, v := range visits {
		if err := visitService.Create(ctx, v); err != nil {
			log.Printf("Failed to create visit for location %d: %v", v.LocationID, err)
		}
	}

	log.Printf("Seeding complete: %d users, %d locations, %d visits", len(users), len(locations), len(visits))
}
