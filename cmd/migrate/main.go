// Package main applies the database schemas and exits.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Ken19931113/debook/internal/config"
	"github.com/Ken19931113/debook/internal/storage/migrations"
	pgstore "github.com/Ken19931113/debook/internal/storage/postgres"
	sqlitestore "github.com/Ken19931113/debook/internal/storage/sqlite"
)

func main() {
	_ = godotenv.Load()

	databaseURL := flag.String("database-url", os.Getenv("DATABASE_URL"), "User store: sqlite://path or postgres://dsn")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse DSN for the activity journal (skipped when empty)")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall timeout")
	flag.Parse()

	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.Lshortfile)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	driver, dsn, err := config.ParseDatabaseURL(*databaseURL)
	if err != nil {
		logger.Fatalf("Invalid database url: %v", err)
	}

	switch driver {
	case config.DriverMemory:
		logger.Println("Memory user store needs no migration")
	case config.DriverSQLite:
		// Open applies the schema.
		db, err := sqlitestore.Open(ctx, dsn)
		if err != nil {
			logger.Fatalf("SQLite migration failed: %v", err)
		}
		db.Close()
		logger.Printf("SQLite schema applied to %s", dsn)
	case config.DriverPostgres:
		pool, err := pgstore.NewPool(ctx, dsn)
		if err != nil {
			logger.Fatalf("Failed to connect to postgres: %v", err)
		}
		err = migrations.RunPostgresMigrations(ctx, pool)
		pool.Close()
		if err != nil {
			logger.Fatalf("PostgreSQL migration failed: %v", err)
		}
		logger.Println("PostgreSQL schema applied")
	}

	if *clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("ClickHouse migration failed: %v", err)
		}
		conn.Close()
		logger.Println("ClickHouse schema applied")
	}
}
