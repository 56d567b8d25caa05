package main

import (
	"database/sql"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"travel-matrix-service/internal/adapters/repositories"
	"travel-matrix-service/internal/config"
	"travel-matrix-service/internal/platform/db"
)

// dbtool initializes the run store schema ahead of deploys. The server also
// initializes on startup; this exists for operating on Postgres directly.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	if cfg.DatabaseURL != "" {
		sqlDB, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer sqlDB.Close()

		initSchema(sqlDB, repositories.InitPostgresSchema, "postgres")
		return
	}

	sqlDB, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	initSchema(sqlDB, repositories.InitSchema, "sqlite")
}

func initSchema(sqlDB *sql.DB, init func(*sql.DB) error, dialect string) {
	log.Printf("Initializing %s database schema...", dialect)
	if err := init(sqlDB); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}
