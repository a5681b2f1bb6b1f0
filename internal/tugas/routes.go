package tugas

import "github.com/go-chi/chi/v5"

// RoutesAdmin endpoint pengelolaan tugas, khusus admin.
func (h *Handler) RoutesAdmin(r chi.Router) {
	r.Post("/", h.Buat)
	r.Get("/", h.Semua)
	r.Get("/{tugasId}", h.Detail)
	r.Put("/{tugasId}", h.Ubah)
	r.Delete("/{tugasId}", h.Hapus)
}

// RoutesPengguna endpoint tugas milik pengguna yang sedang masuk.
func (h *Handler) RoutesPengguna(r chi.Router) {
	r.Get("/", h.MilikSaya)
	r.Put("/{tugasId}/status", h.UbahStatus)
}
