package berita

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	api "github.com/silahar3272/silahar/internal/http"
	"github.com/silahar3272/silahar/internal/repo"
	"github.com/silahar3272/silahar/internal/util"
)

const maksUkuranUnggah = 5 << 20

// Handler melayani endpoint berita.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Semua(w http.ResponseWriter, r *http.Request) {
	hasil, err := h.service.Semua(r.Context())
	if err != nil {
		h.tulisError(w, err, "gagal mengambil berita")
		return
	}
	api.WriteJSON(w, http.StatusOK, hasil)
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "id tidak valid", nil)
		return
	}

	b, err := h.service.Detail(r.Context(), id)
	if err != nil {
		h.tulisError(w, err, "gagal mengambil berita")
		return
	}
	api.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) Buat(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maksUkuranUnggah); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "form tidak valid", nil)
		return
	}

	tanggal, err := parseTanggalForm(r.FormValue("date"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "date tidak valid, gunakan format YYYY-MM-DD", nil)
		return
	}

	arg := BuatParams{
		Category: r.FormValue("category"),
		Title:    r.FormValue("title"),
		Subtitle: r.FormValue("subtitle"),
		Date:     tanggal,
		Time:     r.FormValue("time"),
	}
	data, nama, err := bacaGambar(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "gagal membaca gambar", nil)
		return
	}
	arg.Gambar, arg.GambarNama = data, nama

	b, err := h.service.Buat(r.Context(), arg)
	if err != nil {
		h.tulisError(w, err, "gagal menambah berita")
		return
	}
	api.WriteJSON(w, http.StatusCreated, b)
}

func (h *Handler) Ubah(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "id tidak valid", nil)
		return
	}

	if err := r.ParseMultipartForm(maksUkuranUnggah); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "form tidak valid", nil)
		return
	}

	var arg UbahArtikelParams
	if v := r.FormValue("category"); v != "" {
		arg.Category = &v
	}
	if v := r.FormValue("title"); v != "" {
		arg.Title = &v
	}
	if v := r.FormValue("subtitle"); v != "" {
		arg.Subtitle = &v
	}
	if v := r.FormValue("time"); v != "" {
		arg.Time = &v
	}
	if v := r.FormValue("date"); v != "" {
		tanggal, err := parseTanggalForm(v)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION", "date tidak valid, gunakan format YYYY-MM-DD", nil)
			return
		}
		arg.Date = &tanggal
	}
	data, nama, err := bacaGambar(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "gagal membaca gambar", nil)
		return
	}
	arg.Gambar, arg.GambarNama = data, nama

	b, err := h.service.Ubah(r.Context(), id, arg)
	if err != nil {
		h.tulisError(w, err, "gagal memperbarui berita")
		return
	}
	api.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) Hapus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "id tidak valid", nil)
		return
	}

	if err := h.service.Hapus(r.Context(), id); err != nil {
		h.tulisError(w, err, "gagal menghapus berita")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Berita berhasil dihapus"})
}

// bacaGambar membaca berkas "image" bila dikirim; tanpa berkas bukan error.
func bacaGambar(r *http.Request) ([]byte, string, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, "", nil
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maksUkuranUnggah))
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}

func (h *Handler) tulisError(w http.ResponseWriter, err error, konteks string) {
	var ve *util.ValidationError
	switch {
	case errors.As(err, &ve):
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", ve.Pesan, nil)
	case errors.Is(err, repo.ErrNotFound):
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Berita tidak ditemukan", nil)
	default:
		log.Error().Err(err).Msg(konteks)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "terjadi kesalahan pada server", nil)
	}
}

func parseTanggalForm(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}
