package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/silahar3272/silahar/internal/auth"
	"github.com/silahar3272/silahar/internal/berita"
	"github.com/silahar3272/silahar/internal/config"
	"github.com/silahar3272/silahar/internal/db"
	"github.com/silahar3272/silahar/internal/dokumen"
	internalhttp "github.com/silahar3272/silahar/internal/http"
	"github.com/silahar3272/silahar/internal/laporan"
	"github.com/silahar3272/silahar/internal/pengguna"
	"github.com/silahar3272/silahar/internal/profil"
	"github.com/silahar3272/silahar/internal/repo"
	"github.com/silahar3272/silahar/internal/service"
	"github.com/silahar3272/silahar/internal/storage"
	"github.com/silahar3272/silahar/internal/tugas"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api berhenti dengan error")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis parse: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	penyimpan, err := storage.NewDiskPenyimpan(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	berkas, err := dokumen.NewPengelolaBerkas(cfg.PublicDir, cfg.PDFDeleteDelay)
	if err != nil {
		return fmt.Errorf("dokumen: %w", err)
	}
	renderer := dokumen.NewRenderer(dokumen.NewHTTPPengambil(cfg.BaseURL), "/public/logo.png")

	repository := repo.New(pool)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL)
	authService := service.NewAuthService(repository, jwtManager, cfg.JWTRefreshTTL)

	laporanHandler := laporan.NewHandler(
		laporan.NewService(laporan.NewRepository(pool), redisClient),
		penyimpan, renderer, berkas,
	)
	penggunaHandler := pengguna.NewHandler(pengguna.NewService(pengguna.NewRepository(pool), penyimpan, authService))
	beritaHandler := berita.NewHandler(berita.NewService(berita.NewRepository(pool), penyimpan))
	tugasHandler := tugas.NewHandler(tugas.NewService(tugas.NewRepository(pool)))
	profilHandler := profil.NewHandler(profil.NewService(profil.NewRepository(pool), penyimpan))

	handler := internalhttp.NewRouter(cfg, pool, redisClient, authService, internalhttp.RouterDeps{
		Laporan:       laporanHandler.Routes,
		Pengguna:      penggunaHandler.Routes,
		BeritaBaca:    beritaHandler.RoutesBaca,
		BeritaKelola:  beritaHandler.RoutesKelola,
		TugasAdmin:    tugasHandler.RoutesAdmin,
		TugasPengguna: tugasHandler.RoutesPengguna,
		ProfilBaca:    profilHandler.RoutesBaca,
		ProfilKelola:  profilHandler.RoutesKelola,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("API mendengarkan di :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("mematikan server...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
