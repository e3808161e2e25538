package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/vytor/wordflash/internal/db"
	"github.com/vytor/wordflash/internal/importer"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/repository/sqlite"
	"github.com/vytor/wordflash/internal/services"
)

func main() {
	file := pflag.StringP("file", "f", "", "CSV or XLSX word list to import")
	sheet := pflag.String("sheet", "", "Workbook sheet to read (default: first sheet)")
	topic := pflag.String("topic", "", "Topic for rows that do not set one")
	dbPath := pflag.String("db", envOr("DB_PATH", "file:wordflash.db"), "SQLite database path")
	logLevel := pflag.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pflag.Parse()

	log := logger.New(logger.WithLevel(logger.ParseLevel(*logLevel)), logger.WithColors(true))
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "--file is required")
		pflag.Usage()
		os.Exit(2)
	}

	items, err := importer.ReadFile(*file, importer.Options{Sheet: *sheet, DefaultTopic: *topic})
	if err != nil {
		log.Error("failed to read %s: %v", *file, err)
		os.Exit(1)
	}
	log.Info("read %d rows from %s", len(items), *file)

	database, err := db.Open(*dbPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer database.Close()

	// No worker pool here; the server warms definitions on its next sweep.
	itemService := services.NewItemService(sqlite.NewItemRepository(database.DB), nil)

	ctx := logger.NewContext(context.Background(), log)
	summary, err := itemService.Import(ctx, items)
	if err != nil {
		log.Error("import aborted: %v", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d new, %d updated, %d skipped.\n", summary.Created, summary.Updated, summary.Skipped)
	if len(summary.Errors) > 0 {
		fmt.Println("\nErrors:")
		for _, e := range summary.Errors {
			fmt.Printf("- %s\n", e)
		}
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
