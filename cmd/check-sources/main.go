package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/stayhost/reviews-dashboard/internal/app"
	"github.com/stayhost/reviews-dashboard/internal/config"
	"github.com/stayhost/reviews-dashboard/internal/sources"
)

func main() {
	fmt.Println("🔍 Reviews Dashboard - Source Connectivity Check")
	fmt.Println("================================================")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer application.Close()

	fmt.Printf("\n🗄️  Approval store: %s\n", application.Service.ApprovalStoreName())
	fmt.Println("\n📡 Checking review sources...")
	fmt.Println(strings.Repeat("-", 40))

	for _, source := range application.Sources() {
		checkSource(ctx, source)
	}

	fmt.Println("\n✅ Source check completed!")
	fmt.Println("\n💡 Next steps:")
	fmt.Println("   • Configure missing credentials in .env file")
	fmt.Println("   • Run the API with: go run ./cmd/server")
}

func checkSource(ctx context.Context, source sources.Source) {
	fmt.Printf("🔸 Checking %s... ", source.GetName())

	if !source.IsEnabled() {
		fmt.Printf("⚠️  DISABLED (missing credentials)\n")
		return
	}

	items, err := source.FetchReviews(ctx)
	if err != nil {
		fmt.Printf("❌ ERROR: %v\n", err)
		return
	}

	fmt.Printf("✅ SUCCESS (%d reviews found)\n", len(items))

	if len(items) > 0 {
		fmt.Printf("   📝 Sample: %s on %q (%s)\n", items[0].ID, items[0].ListingName, items[0].SubmittedAt)
	}
}
