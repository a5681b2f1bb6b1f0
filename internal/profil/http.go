package profil

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	api "github.com/silahar3272/silahar/internal/http"
	"github.com/silahar3272/silahar/internal/repo"
	"github.com/silahar3272/silahar/internal/util"
)

const maksUkuranUnggah = 5 << 20

// Handler melayani endpoint profil instansi.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Simpan(w http.ResponseWriter, r *http.Request) {
	arg, ok := h.bacaGambar(w, r)
	if !ok {
		return
	}

	p, err := h.service.Simpan(r.Context(), arg)
	if err != nil {
		h.tulisError(w, err, "gagal menyimpan profil")
		return
	}
	api.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) Semua(w http.ResponseWriter, r *http.Request) {
	hasil, err := h.service.Semua(r.Context())
	if err != nil {
		h.tulisError(w, err, "gagal mengambil profil")
		return
	}
	api.WriteJSON(w, http.StatusOK, hasil)
}

func (h *Handler) VisiMisi(w http.ResponseWriter, r *http.Request) {
	ref, err := h.service.VisiMisi(r.Context())
	if err != nil {
		h.tulisError(w, err, "gagal mengambil visi misi")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]*string{"visi_misi_image": ref})
}

func (h *Handler) Berakhlak(w http.ResponseWriter, r *http.Request) {
	ref, err := h.service.Berakhlak(r.Context())
	if err != nil {
		h.tulisError(w, err, "gagal mengambil berakhlak")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]*string{"berakhlak_image": ref})
}

func (h *Handler) Ubah(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "id tidak valid", nil)
		return
	}

	arg, ok := h.bacaGambar(w, r)
	if !ok {
		return
	}

	p, err := h.service.Ubah(r.Context(), id, arg)
	if err != nil {
		h.tulisError(w, err, "gagal memperbarui profil")
		return
	}
	api.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Hapus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "id tidak valid", nil)
		return
	}

	if err := h.service.Hapus(r.Context(), id); err != nil {
		h.tulisError(w, err, "gagal menghapus profil")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Profil berhasil dihapus"})
}

func (h *Handler) bacaGambar(w http.ResponseWriter, r *http.Request) (GambarParams, bool) {
	if err := r.ParseMultipartForm(maksUkuranUnggah); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "form tidak valid", nil)
		return GambarParams{}, false
	}

	var arg GambarParams
	if file, header, err := r.FormFile("visi_misi_image"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maksUkuranUnggah))
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION", "gagal membaca gambar visi misi", nil)
			return GambarParams{}, false
		}
		arg.VisiMisi, arg.VisiMisiNama = data, header.Filename
	}
	if file, header, err := r.FormFile("berakhlak_image"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maksUkuranUnggah))
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION", "gagal membaca gambar berakhlak", nil)
			return GambarParams{}, false
		}
		arg.Berakhlak, arg.BerakhlakNama = data, header.Filename
	}
	return arg, true
}

func (h *Handler) tulisError(w http.ResponseWriter, err error, konteks string) {
	var ve *util.ValidationError
	switch {
	case errors.As(err, &ve):
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", ve.Pesan, nil)
	case errors.Is(err, repo.ErrNotFound):
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Profil tidak ditemukan", nil)
	default:
		log.Error().Err(err).Msg(konteks)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "terjadi kesalahan pada server", nil)
	}
}
