package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/stayhost/reviews-dashboard/internal/app"
	"github.com/stayhost/reviews-dashboard/internal/config"
	"github.com/stayhost/reviews-dashboard/internal/models"
	"github.com/stayhost/reviews-dashboard/internal/reviews"
)

func main() {
	listing := flag.String("listing", "", "listing name or id")
	channel := flag.String("channel", "", "hostaway or google")
	reviewType := flag.String("type", "", "guest-to-host or host-to-guest")
	category := flag.String("category", "", "category that must be present")
	from := flag.String("from", "", "earliest submission date (ISO 8601)")
	to := flag.String("to", "", "latest submission date (ISO 8601)")
	minRating := flag.String("min-rating", "", "minimum overall rating")
	outDir := flag.String("out", "", "directory to save the JSON report to")
	flag.Parse()

	fmt.Println("📊 Reviews Dashboard - Report Generator")
	fmt.Println("=======================================")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	logrus.SetLevel(logrus.WarnLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	params := url.Values{}
	for key, value := range map[string]string{
		"listing":   *listing,
		"channel":   *channel,
		"type":      *reviewType,
		"category":  *category,
		"from":      *from,
		"to":        *to,
		"minRating": *minRating,
	} {
		if value != "" {
			params.Set(key, value)
		}
	}
	params.Set("pageSize", fmt.Sprint(reviews.MaxPageSize))

	q, err := reviews.ParseQuery(params)
	if err != nil {
		log.Fatalf("Invalid filter: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer application.Close()

	resp := application.Service.ListReviews(ctx, q)
	printReport(resp)

	if *outDir != "" {
		if err := saveReport(*outDir, resp); err != nil {
			fmt.Printf("\n⚠️  Warning: Could not save to file: %v\n", err)
		}
	}
}

func printReport(resp models.ReviewsResponse) {
	agg := resp.Aggregates

	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Printf("📈 Matching reviews: %d\n", agg.Counts.Total)
	fmt.Printf("⭐ Average rating: %s\n", formatRating(agg.AvgOverallRating))

	fmt.Println("\n📍 Channels:")
	for _, name := range sortedKeys(agg.Counts.ByChannel) {
		fmt.Printf("   • %-15s %d reviews\n", name+":", agg.Counts.ByChannel[name])
	}

	fmt.Println("\n↔️  Types:")
	for _, name := range sortedKeys(agg.Counts.ByType) {
		fmt.Printf("   • %-15s %d reviews\n", name+":", agg.Counts.ByType[name])
	}

	if len(agg.AvgByCategory) > 0 {
		fmt.Println("\n🧹 Categories:")
		names := make([]string, 0, len(agg.AvgByCategory))
		for name := range agg.AvgByCategory {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("   • %-20s %.2f\n", name+":", agg.AvgByCategory[name])
		}
	}

	fmt.Println("\n🗓️  Monthly:")
	for _, point := range agg.TimeSeriesMonthly {
		fmt.Printf("   %s  %3d reviews  avg %s\n", point.Month, point.Count, formatRating(point.AvgRating))
	}

	fmt.Println("\n📝 Latest reviews:")
	for i, item := range resp.Items {
		if i >= 5 {
			fmt.Printf("   ... and %d more reviews\n", resp.Total-5)
			break
		}
		fmt.Printf("\n   %d. [%s] %s (%s)\n", i+1, item.Channel, item.ListingName, formatRating(item.OverallRating))
		if item.AuthorName != nil {
			fmt.Printf("      👤 Author: %s\n", *item.AuthorName)
		}
		fmt.Printf("      🕒 Submitted: %s\n", item.SubmittedAt)
		if item.Text != "" {
			fmt.Printf("      💬 %s\n", item.Text)
		}
	}
	fmt.Println("\n" + strings.Repeat("=", 70))
}

func saveReport(dir string, resp models.ReviewsResponse) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	filename := filepath.Join(dir, fmt.Sprintf("reviews_report_%s.json", time.Now().UTC().Format("2006-01-02_15-04-05")))
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return err
	}

	fmt.Printf("\n💾 Report saved to: %s\n", filename)
	return nil
}

func formatRating(r *float64) string {
	if r == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *r)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
