package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// DSN builds the MySQL DSN. DB_DSN wins when set. clientFoundRows makes
// RowsAffected count matched rows so not-found checks work on unchanged rows.
func (e Env) DSN() string {
	if e.DBDSN != "" {
		return e.DBDSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=Local&charset=utf8mb4&clientFoundRows=true&timeout=5s&readTimeout=30s&writeTimeout=30s",
		e.DBUser,
		e.DBPassword,
		e.DBHost,
		e.DBName,
	)
}

// ConnectDB opens the MySQL pool and verifies it with a ping.
func ConnectDB(ctx context.Context, env Env) (*sql.DB, error) {
	db, err := sql.Open("mysql", env.DSN())
	if err != nil {
		return nil, fmt.Errorf("gagal open DB: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("gagal ping DB: %w", err)
	}
	return db, nil
}

// PingDB is used by the db-check endpoint.
func PingDB(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database belum terhubung")
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}
