package pengguna

import "github.com/go-chi/chi/v5"

// Routes mendaftarkan endpoint pengelolaan pegawai. Router pemanggil sudah
// membatasi akses untuk admin.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/tambah", h.Tambah)
	r.Get("/jumlah", h.Jumlah)
	r.Get("/", h.Semua)
	r.Get("/{id}", h.Detail)
	r.Put("/edit/{id}", h.Ubah)
	r.Delete("/hapus/{id}", h.Hapus)
	r.Put("/reset-password/{id}", h.ResetSandi)
}
