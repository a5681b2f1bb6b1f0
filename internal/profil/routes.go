package profil

import "github.com/go-chi/chi/v5"

// RoutesBaca endpoint baca profil instansi.
func (h *Handler) RoutesBaca(r chi.Router) {
	r.Get("/", h.Semua)
	r.Get("/visi-misi", h.VisiMisi)
	r.Get("/berakhlak", h.Berakhlak)
}

// RoutesKelola endpoint tulis profil, khusus admin.
func (h *Handler) RoutesKelola(r chi.Router) {
	r.Post("/tambah", h.Simpan)
	r.Put("/edit/{id}", h.Ubah)
	r.Delete("/hapus/{id}", h.Hapus)
}
