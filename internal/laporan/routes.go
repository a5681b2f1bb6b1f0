package laporan

import "github.com/go-chi/chi/v5"

// Routes mendaftarkan endpoint laporan. Router pemanggil sudah memasang
// middleware autentikasi.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/tambah", h.Tambah)
	r.Get("/", h.HariIni)
	r.Get("/grafik", h.Grafik)
	r.Get("/download-laporan", h.UnduhHarian)
	r.Get("/download/all/{tanggal_awal}/{tanggal_akhir}", h.UnduhRentang)
	r.Get("/download/{id}/{tanggal_awal}/{tanggal_akhir}", h.UnduhRentang)
	r.Get("/{id}/{tanggal}", h.ByPenggunaTanggal)
}
