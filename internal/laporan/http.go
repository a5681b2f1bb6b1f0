package laporan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/silahar3272/silahar/internal/dokumen"
	api "github.com/silahar3272/silahar/internal/http"
	"github.com/silahar3272/silahar/internal/http/middleware"
	"github.com/silahar3272/silahar/internal/storage"
)

const maksUkuranUnggah = 10 << 20

// PerenderDokumen abstraksi renderer PDF untuk keperluan handler.
type PerenderDokumen interface {
	RenderHarian(ctx context.Context, k *dokumen.KelompokLaporan, tanggal time.Time, w io.Writer) error
	RenderRentang(ctx context.Context, kelompok []*dokumen.KelompokLaporan, awal, akhir time.Time, w io.Writer) error
}

// Handler melayani endpoint laporan harian.
type Handler struct {
	service   *Service
	penyimpan storage.Penyimpan
	renderer  PerenderDokumen
	berkas    *dokumen.PengelolaBerkas
}

func NewHandler(service *Service, penyimpan storage.Penyimpan, renderer PerenderDokumen, berkas *dokumen.PengelolaBerkas) *Handler {
	return &Handler{service: service, penyimpan: penyimpan, renderer: renderer, berkas: berkas}
}

// Tambah menerima multipart laporan baru. Identitas pelapor diambil dari
// token, bukan dari body.
func (h *Handler) Tambah(w http.ResponseWriter, r *http.Request) {
	penggunaID, err := uuid.Parse(middleware.GetSubject(r.Context()))
	if err != nil {
		api.WriteError(w, http.StatusUnauthorized, "AUTH", "token tidak valid", nil)
		return
	}

	if err := r.ParseMultipartForm(maksUkuranUnggah); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "form tidak valid", nil)
		return
	}

	deskripsi := strings.TrimSpace(r.FormValue("deskripsi"))
	if deskripsi == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "deskripsi wajib diisi", nil)
		return
	}

	var fotoRef *string
	file, header, err := r.FormFile("foto_kegiatan")
	if err == nil {
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maksUkuranUnggah))
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION", "gagal membaca foto kegiatan", nil)
			return
		}
		if err := storage.CekGambar(header.Filename, data); err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
			return
		}

		berkas, err := h.penyimpan.Simpan(r.Context(), "foto_kegiatan", header.Filename, data)
		if err != nil {
			log.Error().Err(err).Msg("gagal menyimpan foto kegiatan")
			api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "gagal mengupload foto kegiatan", nil)
			return
		}
		fotoRef = &berkas.Ref
	}

	id, err := h.service.Submit(r.Context(), SubmitParams{
		PenggunaID:   penggunaID,
		JamMulai:     r.FormValue("jam_mulai"),
		JamSelesai:   r.FormValue("jam_selesai"),
		Deskripsi:    deskripsi,
		FotoKegiatan: fotoRef,
	})
	if err != nil {
		h.bersihkanFoto(r.Context(), fotoRef)
		switch {
		case errors.Is(err, ErrJamTidakValid):
			api.WriteError(w, http.StatusBadRequest, "VALIDATION",
				"Waktu laporan tidak valid. Harus dalam rentang 08:00-16:00 dengan format HH:MM (contoh: 10:00-12:00)", nil)
		case errors.Is(err, ErrJadwalBentrok):
			api.WriteError(w, http.StatusConflict, "CONFLICT",
				"Anda sudah membuat laporan untuk waktu ini atau waktu yang tumpang tindih", nil)
		case errors.Is(err, ErrPenggunaTidakDitemukan):
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Pengguna tidak ditemukan", nil)
		default:
			log.Error().Err(err).Msg("gagal menyimpan laporan")
			api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "terjadi kesalahan pada server", nil)
		}
		return
	}

	api.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":      id,
		"message": "Laporan berhasil ditambahkan",
	})
}

// bersihkanFoto membuang foto yang terlanjur tersimpan saat insert gagal.
func (h *Handler) bersihkanFoto(ctx context.Context, ref *string) {
	if ref == nil {
		return
	}
	if err := h.penyimpan.Hapus(ctx, *ref); err != nil {
		log.Warn().Err(err).Str("foto", *ref).Msg("gagal membuang foto yatim")
	}
}

// HariIni mengembalikan seluruh laporan hari ini.
func (h *Handler) HariIni(w http.ResponseWriter, r *http.Request) {
	hasil, err := h.service.LaporanHariIni(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("gagal mengambil laporan hari ini")
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "terjadi kesalahan pada server", nil)
		return
	}
	api.WriteJSON(w, http.StatusOK, hasil)
}

// Grafik mengembalikan slot jam hari ini untuk grafik kehadiran.
func (h *Handler) Grafik(w http.ResponseWriter, r *http.Request) {
	hasil, err := h.service.Grafik(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("gagal mengambil grafik laporan")
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "terjadi kesalahan pada server", nil)
		return
	}
	api.WriteJSON(w, http.StatusOK, hasil)
}

// ByPenggunaTanggal mengembalikan laporan satu pengguna pada satu tanggal.
func (h *Handler) ByPenggunaTanggal(w http.ResponseWriter, r *http.Request) {
	penggunaID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "id pengguna tidak valid", nil)
		return
	}
	tanggal, err := parseTanggal(chi.URLParam(r, "tanggal"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "tanggal tidak valid, gunakan format YYYY-MM-DD", nil)
		return
	}

	hasil, err := h.service.LaporanPengguna(r.Context(), penggunaID, tanggal)
	if err != nil {
		if errors.Is(err, ErrTidakAdaLaporan) {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Laporan tidak ditemukan", nil)
			return
		}
		log.Error().Err(err).Msg("gagal mengambil laporan pengguna")
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "terjadi kesalahan pada server", nil)
		return
	}
	api.WriteJSON(w, http.StatusOK, hasil)
}

// UnduhHarian membuat PDF laporan satu pengguna satu tanggal (query
// pengguna_id dan tanggal) lalu mengirimkannya sebagai unduhan sementara.
func (h *Handler) UnduhHarian(w http.ResponseWriter, r *http.Request) {
	penggunaID, err := uuid.Parse(r.URL.Query().Get("pengguna_id"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "pengguna_id tidak valid", nil)
		return
	}
	tanggal, err := parseTanggal(r.URL.Query().Get("tanggal"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "tanggal tidak valid, gunakan format YYYY-MM-DD", nil)
		return
	}

	kelompok, err := h.service.KelompokHarian(r.Context(), penggunaID, tanggal)
	if err != nil {
		h.tulisErrorDokumen(w, err)
		return
	}

	nama := fmt.Sprintf("Laporan_%s_%s.pdf", penggunaID, tanggal.Format("2006-01-02"))
	h.kirimDokumen(w, r, nama, func(out io.Writer) error {
		return h.renderer.RenderHarian(r.Context(), keDokumen(kelompok), tanggal, out)
	})
}

// UnduhRentang membuat PDF rentang tanggal, semua pengguna atau satu pengguna
// bila path membawa id.
func (h *Handler) UnduhRentang(w http.ResponseWriter, r *http.Request) {
	awal, err := parseTanggal(chi.URLParam(r, "tanggal_awal"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "tanggal_awal tidak valid, gunakan format YYYY-MM-DD", nil)
		return
	}
	akhir, err := parseTanggal(chi.URLParam(r, "tanggal_akhir"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "tanggal_akhir tidak valid, gunakan format YYYY-MM-DD", nil)
		return
	}
	if akhir.Before(awal) {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "tanggal_akhir harus setelah tanggal_awal", nil)
		return
	}

	var (
		penggunaID *uuid.UUID
		nama       string
	)
	if raw := chi.URLParam(r, "id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION", "id pengguna tidak valid", nil)
			return
		}
		penggunaID = &id
	}

	kelompok, err := h.service.KelompokRentang(r.Context(), penggunaID, awal, akhir)
	if err != nil {
		h.tulisErrorDokumen(w, err)
		return
	}

	rentang := awal.Format("2006-01-02") + "_sampai_" + akhir.Format("2006-01-02")
	if penggunaID != nil {
		nama = fmt.Sprintf("Laporan_%s_%s.pdf", dokumen.NamaBerkasAman(kelompok[0].NamaLengkap), rentang)
	} else {
		nama = fmt.Sprintf("Laporan_SemuaPengguna_%s.pdf", rentang)
	}

	h.kirimDokumen(w, r, nama, func(out io.Writer) error {
		return h.renderer.RenderRentang(r.Context(), keDokumenSemua(kelompok), awal, akhir, out)
	})
}

func (h *Handler) kirimDokumen(w http.ResponseWriter, r *http.Request, nama string, render func(io.Writer) error) {
	path, err := h.berkas.Tulis(nama, render)
	if err != nil {
		log.Error().Err(err).Str("dokumen", nama).Msg("gagal merender dokumen laporan")
		api.WriteError(w, http.StatusInternalServerError, "RENDER", "gagal membuat dokumen laporan", nil)
		return
	}
	h.berkas.Kirim(w, r, path, nama)
}

func (h *Handler) tulisErrorDokumen(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrTidakAdaLaporan) {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Tidak ada laporan ditemukan", nil)
		return
	}
	log.Error().Err(err).Msg("gagal mengambil data dokumen laporan")
	api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "terjadi kesalahan pada server", nil)
}

func parseTanggal(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(raw))
}

func keDokumen(k *KelompokLaporan) *dokumen.KelompokLaporan {
	hasil := &dokumen.KelompokLaporan{
		NamaLengkap: k.NamaLengkap,
		Nip:         k.Nip,
		Tandatangan: k.Tandatangan,
	}
	for _, l := range k.Laporan {
		hasil.Baris = append(hasil.Baris, dokumen.BarisLaporan{
			Tanggal:    l.Tanggal,
			JamMulai:   l.JamMulai,
			JamSelesai: l.JamSelesai,
			Deskripsi:  l.Deskripsi,
			FotoRef:    l.FotoKegiatan,
		})
	}
	return hasil
}

func keDokumenSemua(kelompok []*KelompokLaporan) []*dokumen.KelompokLaporan {
	hasil := make([]*dokumen.KelompokLaporan, 0, len(kelompok))
	for _, k := range kelompok {
		hasil = append(hasil, keDokumen(k))
	}
	return hasil
}
