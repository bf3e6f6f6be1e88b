package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentago/internal/cache"
	intconfig "rentago/internal/config"
	intdb "rentago/internal/db"
	"rentago/internal/gateway"
	router "rentago/internal/http"
	"rentago/internal/http/handlers"
	"rentago/internal/repositories"
	"rentago/internal/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	log := utils.Logger()

	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	if env.JWTSecret == "" {
		log.Warn("JWT_SECRET kosong: semua token akan ditolak")
	}
	if env.MidtransServerKey == "" {
		log.Warn("MIDTRANS_SERVER_KEY kosong: pembayaran tidak akan berjalan")
	}

	ctx := context.Background()

	db, err := intconfig.ConnectDB(ctx, env)
	if err != nil {
		log.WithError(err).Fatal("Gagal koneksi database")
	}
	defer db.Close()

	if err := intdb.EnsureSchema(ctx, db); err != nil {
		log.WithError(err).Fatal("Gagal menyiapkan schema")
	}

	idem, err := cache.NewIdempotency(ctx, env.RedisURL, env.IdempotencyTTL)
	if err != nil {
		// booking tetap jalan tanpa replay
		log.WithError(err).Warn("Redis tidak tersedia, idempotency dimatikan")
		idem = nil
	}
	defer idem.Close()

	hd := &handlers.Handler{
		DB:       db,
		Vehicles: repositories.VehicleRepository{DB: db},
		Bookings: repositories.BookingRepository{DB: db},
		Payments: repositories.PaymentRepository{DB: db},
		Promos:   repositories.PromoRepository{DB: db},
		Profiles: repositories.ProfileRepository{DB: db},
		Stats:    repositories.StatsRepository{DB: db},
		Gateway:  gateway.NewMidtrans(env.MidtransServerKey, env.MidtransEnv, env.GatewayTimeout),
		Idem:     idem,
		Env:      env,
	}

	r := router.NewRouter(hd)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infof("Server berjalan di http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Gagal menjalankan server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Mematikan server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Shutdown server gagal")
		return
	}

	log.Info("Server berhenti dengan aman.")
}
