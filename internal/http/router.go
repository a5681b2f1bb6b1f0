package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/silahar3272/silahar/internal/config"
	httpmiddleware "github.com/silahar3272/silahar/internal/http/middleware"
	"github.com/silahar3272/silahar/internal/service"
)

// Mounter mendaftarkan sekumpulan endpoint domain pada subrouter.
type Mounter func(chi.Router)

// RouterDeps mengumpulkan pemasang rute tiap domain. Handler domain tinggal
// mengekspos metode Routes-nya.
type RouterDeps struct {
	Laporan       Mounter
	Pengguna      Mounter
	BeritaBaca    Mounter
	BeritaKelola  Mounter
	TugasAdmin    Mounter
	TugasPengguna Mounter
	ProfilBaca    Mounter
	ProfilKelola  Mounter
}

type rootHandler struct {
	pool  *pgxpool.Pool
	redis *redis.Client
}

// NewRouter menyusun seluruh rute aplikasi beserta middleware-nya.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, authService *service.AuthService, deps RouterDeps) http.Handler {
	root := &rootHandler{pool: pool, redis: redisClient}
	authHandler := NewAuthHandler(authService)

	publicLimiter := httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst)
	authLimiter := httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	// Aset statis: unggahan (foto kegiatan, tandatangan, berita, profil) dan
	// direktori publik (logo). PDF laporan tidak pernah dilayani dari sini,
	// ia dikirim langsung lalu dihapus.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	r.Handle("/public/*", http.StripPrefix("/public/", http.FileServer(http.Dir(cfg.PublicDir))))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(publicLimiter))

		public.Get("/health", root.Health)
		public.Get("/ready", root.Ready)

		public.Route("/auth", authHandler.Routes)
	})

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.Auth(authService.JWT()))
		private.Use(httpmiddleware.UserRateLimit(authLimiter))

		private.Get("/me", authHandler.Me)

		private.Route("/laporan", deps.Laporan)

		private.Route("/berita", func(berita chi.Router) {
			deps.BeritaBaca(berita)
			berita.Group(func(admin chi.Router) {
				admin.Use(httpmiddleware.RequireAdmin)
				deps.BeritaKelola(admin)
			})
		})

		private.Route("/profil", func(profil chi.Router) {
			deps.ProfilBaca(profil)
			profil.Group(func(admin chi.Router) {
				admin.Use(httpmiddleware.RequireAdmin)
				deps.ProfilKelola(admin)
			})
		})

		private.Route("/user/tugas", deps.TugasPengguna)

		private.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.RequireAdmin)
			admin.Route("/pengguna", deps.Pengguna)
			admin.Route("/admin/tugas", deps.TugasAdmin)
		})
	})

	return r
}

// Health menandakan proses hidup.
func (h *rootHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready memastikan Postgres dan Redis dapat dijangkau.
func (h *rootHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbErr := h.pool.Ping(ctx)
	redisErr := h.redis.Ping(ctx).Err()

	if dbErr != nil || redisErr != nil {
		WriteError(w, http.StatusServiceUnavailable, "INTERNAL", "dependensi tidak tersedia", map[string]any{
			"db":    errorString(dbErr),
			"redis": errorString(redisErr),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
