package db

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
	id CHAR(36) PRIMARY KEY,
	full_name VARCHAR(255) NOT NULL,
	phone VARCHAR(50) NULL,
	role VARCHAR(20) NOT NULL DEFAULT 'customer',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS vehicles (
	id CHAR(36) PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	type VARCHAR(20) NOT NULL,
	brand VARCHAR(100) NOT NULL,
	model VARCHAR(100) NOT NULL,
	year INT NOT NULL,
	price_per_day BIGINT NOT NULL,
	description TEXT NULL,
	image_url VARCHAR(1024) NULL,
	images JSON NULL,
	is_available TINYINT(1) NOT NULL DEFAULT 1,
	features JSON NULL,
	transmission VARCHAR(20) NOT NULL,
	seats INT NULL,
	engine_cc INT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_vehicles_type (type)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS promos (
	id CHAR(36) PRIMARY KEY,
	code VARCHAR(50) NOT NULL,
	description TEXT NULL,
	discount_amount BIGINT NOT NULL,
	min_booking_days INT NOT NULL DEFAULT 1,
	usage_limit INT NULL,
	used_count INT NOT NULL DEFAULT 0,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	valid_from DATETIME NULL,
	valid_until DATETIME NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_promos_code (code)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS bookings (
	id CHAR(36) PRIMARY KEY,
	order_id VARCHAR(20) NOT NULL,
	user_id CHAR(36) NULL,
	guest_name VARCHAR(255) NULL,
	guest_phone VARCHAR(50) NULL,
	guest_email VARCHAR(255) NULL,
	vehicle_id CHAR(36) NOT NULL,
	start_date DATE NOT NULL,
	end_date DATE NOT NULL,
	total_days INT NOT NULL,
	total_price BIGINT NOT NULL,
	discount_amount BIGINT NOT NULL DEFAULT 0,
	final_price BIGINT NOT NULL,
	status VARCHAR(30) NOT NULL DEFAULT 'pending',
	pickup_location VARCHAR(512) NULL,
	delivery_location VARCHAR(512) NULL,
	notes TEXT NULL,
	promo_code VARCHAR(50) NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_bookings_order_id (order_id),
	KEY idx_bookings_vehicle_dates (vehicle_id, start_date, end_date),
	KEY idx_bookings_user (user_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin`,

	`CREATE TABLE IF NOT EXISTS payments (
	id CHAR(36) PRIMARY KEY,
	booking_id CHAR(36) NOT NULL,
	midtrans_transaction_id VARCHAR(100) NULL,
	midtrans_order_id VARCHAR(20) NULL,
	payment_type VARCHAR(50) NULL,
	amount BIGINT NOT NULL,
	status VARCHAR(30) NOT NULL DEFAULT 'pending',
	snap_token VARCHAR(255) NULL,
	raw_response JSON NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_payments_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
}

// EnsureSchema creates missing tables. Existing tables are left untouched.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db tidak tersedia")
	}
	for _, ddl := range schema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
