package tugas

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	api "github.com/silahar3272/silahar/internal/http"
	"github.com/silahar3272/silahar/internal/http/middleware"
	"github.com/silahar3272/silahar/internal/repo"
	"github.com/silahar3272/silahar/internal/util"
)

// Handler melayani endpoint penugasan.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Buat membuat tugas baru; pemberi tugas diambil dari token admin.
func (h *Handler) Buat(w http.ResponseWriter, r *http.Request) {
	adminID, err := uuid.Parse(middleware.GetSubject(r.Context()))
	if err != nil {
		api.WriteError(w, http.StatusUnauthorized, "AUTH", "token tidak valid", nil)
		return
	}

	var body struct {
		UserID          string `json:"user_id"`
		Judul           string `json:"judul"`
		Deskripsi       string `json:"deskripsi"`
		TanggalDeadline string `json:"tanggal_deadline"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "body tidak valid", nil)
		return
	}

	penggunaID, err := uuid.Parse(body.UserID)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "user_id tidak valid", nil)
		return
	}
	deadline, err := time.Parse("2006-01-02", body.TanggalDeadline)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "tanggal_deadline tidak valid, gunakan format YYYY-MM-DD", nil)
		return
	}

	t, err := h.service.Buat(r.Context(), BuatParams{
		PenggunaID:      penggunaID,
		AdminID:         adminID,
		Judul:           body.Judul,
		Deskripsi:       body.Deskripsi,
		TanggalDeadline: deadline,
	})
	if err != nil {
		h.tulisError(w, err, "gagal membuat tugas")
		return
	}
	api.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) Semua(w http.ResponseWriter, r *http.Request) {
	hasil, err := h.service.Semua(r.Context())
	if err != nil {
		h.tulisError(w, err, "gagal mengambil daftar tugas")
		return
	}
	api.WriteJSON(w, http.StatusOK, hasil)
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "tugasId"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "id tugas tidak valid", nil)
		return
	}

	t, err := h.service.Detail(r.Context(), id)
	if err != nil {
		h.tulisError(w, err, "gagal mengambil tugas")
		return
	}
	api.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) Ubah(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "tugasId"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "id tugas tidak valid", nil)
		return
	}

	var body struct {
		Judul           string `json:"judul"`
		Deskripsi       string `json:"deskripsi"`
		TanggalDeadline string `json:"tanggal_deadline"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "body tidak valid", nil)
		return
	}

	deadline, err := time.Parse("2006-01-02", body.TanggalDeadline)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "tanggal_deadline tidak valid, gunakan format YYYY-MM-DD", nil)
		return
	}

	t, err := h.service.Ubah(r.Context(), id, body.Judul, body.Deskripsi, deadline)
	if err != nil {
		h.tulisError(w, err, "gagal memperbarui tugas")
		return
	}
	api.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) Hapus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "tugasId"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "id tugas tidak valid", nil)
		return
	}

	if err := h.service.Hapus(r.Context(), id); err != nil {
		h.tulisError(w, err, "gagal menghapus tugas")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Tugas berhasil dihapus"})
}

// MilikSaya mengembalikan tugas milik pengguna yang sedang masuk.
func (h *Handler) MilikSaya(w http.ResponseWriter, r *http.Request) {
	penggunaID, err := uuid.Parse(middleware.GetSubject(r.Context()))
	if err != nil {
		api.WriteError(w, http.StatusUnauthorized, "AUTH", "token tidak valid", nil)
		return
	}

	hasil, err := h.service.MilikPengguna(r.Context(), penggunaID)
	if err != nil {
		h.tulisError(w, err, "gagal mengambil tugas pengguna")
		return
	}
	api.WriteJSON(w, http.StatusOK, hasil)
}

// UbahStatus memperbarui status tugas; hanya pemilik tugas yang boleh.
func (h *Handler) UbahStatus(w http.ResponseWriter, r *http.Request) {
	penggunaID, err := uuid.Parse(middleware.GetSubject(r.Context()))
	if err != nil {
		api.WriteError(w, http.StatusUnauthorized, "AUTH", "token tidak valid", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "tugasId"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "id tugas tidak valid", nil)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "body tidak valid", nil)
		return
	}

	t, err := h.service.UbahStatus(r.Context(), id, penggunaID, body.Status)
	if err != nil {
		h.tulisError(w, err, "gagal memperbarui status tugas")
		return
	}
	api.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) tulisError(w http.ResponseWriter, err error, konteks string) {
	var ve *util.ValidationError
	switch {
	case errors.As(err, &ve):
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", ve.Pesan, nil)
	case errors.Is(err, ErrBukanPemilik):
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", ErrBukanPemilik.Error(), nil)
	case errors.Is(err, repo.ErrNotFound):
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Tugas tidak ditemukan", nil)
	default:
		log.Error().Err(err).Msg(konteks)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "terjadi kesalahan pada server", nil)
	}
}
