package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/stayhost/reviews-dashboard/internal/app"
	"github.com/stayhost/reviews-dashboard/internal/config"
	"github.com/stayhost/reviews-dashboard/internal/reviews"
	"github.com/stayhost/reviews-dashboard/internal/sources"
)

const usage = `usage: fixtures <command> [args]

commands:
  upload [file]   validate and store a Hostaway dataset (embedded dataset when file is omitted)
  list [prefix]   list stored datasets
  delete <name>   delete a stored dataset`

func main() {
	name := flag.String("name", "", "object name (defaults to FIXTURE_NAME)")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	store, err := app.NewStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	if store == nil {
		log.Fatal("No fixture storage configured, set AZURE_STORAGE_ACCOUNT, AZURE_STORAGE_CONNECTION_STRING or FIXTURE_DIR")
	}

	object := *name
	if object == "" {
		object = cfg.FixtureName
	}

	switch flag.Arg(0) {
	case "upload":
		data := sources.EmbeddedFixture()
		if path := flag.Arg(1); path != "" {
			if data, err = os.ReadFile(path); err != nil {
				log.Fatalf("Failed to read %s: %v", path, err)
			}
		}
		items, err := reviews.DecodeHostaway(data)
		if err != nil {
			log.Fatalf("Dataset is not a Hostaway review array: %v", err)
		}
		if err := store.Store(ctx, object, data); err != nil {
			log.Fatalf("Upload failed: %v", err)
		}
		fmt.Printf("✅ Uploaded %s (%d reviews)\n", object, len(items))

	case "list":
		names, err := store.List(ctx, flag.Arg(1))
		if err != nil {
			log.Fatalf("List failed: %v", err)
		}
		for _, n := range names {
			fmt.Println(n)
		}

	case "delete":
		target := flag.Arg(1)
		if target == "" {
			target = object
		}
		if err := store.Delete(ctx, target); err != nil {
			log.Fatalf("Delete failed: %v", err)
		}
		fmt.Printf("🗑️  Deleted %s\n", target)

	default:
		flag.Usage()
		os.Exit(2)
	}
}
