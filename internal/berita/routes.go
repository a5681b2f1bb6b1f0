package berita

import "github.com/go-chi/chi/v5"

// RoutesBaca endpoint baca berita, terbuka untuk semua pengguna terautentikasi.
func (h *Handler) RoutesBaca(r chi.Router) {
	r.Get("/", h.Semua)
	r.Get("/{id}", h.Detail)
}

// RoutesKelola endpoint tulis berita, khusus admin.
func (h *Handler) RoutesKelola(r chi.Router) {
	r.Post("/", h.Buat)
	r.Put("/{id}", h.Ubah)
	r.Delete("/{id}", h.Hapus)
}
