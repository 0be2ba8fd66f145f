package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/vncsmyrnk/wishpool/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/wishpool/internal/config"
)

const usage = `usage: migrations [-database-url URL] <up|down [steps]|version>`

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Println("No .env file loaded:", err)
	}
	cfg := config.Load()

	var databaseURL string
	flag.StringVar(&databaseURL, "database-url", cfg.DatabaseURL, "Postgres connection URL")
	flag.Parse()

	if databaseURL == "" {
		log.Fatal("a database URL is required (DATABASE_URL or POSTGRES_*)")
	}
	if flag.NArg() < 1 {
		log.Fatal(usage)
	}

	switch flag.Arg(0) {
	case "up":
		if err := postgres.MigrateUp(databaseURL); err != nil {
			log.Fatal(err)
		}
		fmt.Println("Migrations applied successfully.")

	case "down":
		steps := 1
		if flag.NArg() > 1 {
			n, err := strconv.Atoi(flag.Arg(1))
			if err != nil || n < 1 {
				log.Fatalf("invalid step count %q", flag.Arg(1))
			}
			steps = n
		}
		if err := postgres.MigrateDown(databaseURL, steps); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Rolled back %d migration(s).\n", steps)

	case "version":
		version, dirty, err := postgres.MigrationVersion(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)

	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}
