package pengguna

import (
	"encoding/json"
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

// Handler melayani endpoint pengelolaan pegawai.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type penggunaDTO struct {
	ID          uuid.UUID `json:"id"`
	NamaLengkap string    `json:"nama_lengkap"`
	Nip         string    `json:"nip"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	Tandatangan *string   `json:"tandatangan,omitempty"`
	DibuatPada  time.Time `json:"dibuat_pada"`
}

func keDTO(p repo.Pengguna) penggunaDTO {
	return penggunaDTO{
		ID:          p.ID,
		NamaLengkap: p.NamaLengkap,
		Nip:         p.Nip,
		Email:       p.Email,
		Username:    p.Username,
		Role:        p.Role,
		Tandatangan: p.Tandatangan,
		DibuatPada:  p.DibuatPada,
	}
}

// Tambah mendaftarkan pegawai baru lewat multipart (tanda tangan opsional).
func (h *Handler) Tambah(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maksUkuranUnggah); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "form tidak valid", nil)
		return
	}

	arg := DaftarParams{
		NamaLengkap: r.FormValue("nama_lengkap"),
		Nip:         r.FormValue("nip"),
		Email:       r.FormValue("email"),
		Username:    r.FormValue("username"),
		Sandi:       r.FormValue("password"),
		Role:        r.FormValue("role"),
	}

	if file, header, err := r.FormFile("tandatangan"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maksUkuranUnggah))
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION", "gagal membaca tanda tangan", nil)
			return
		}
		arg.Tandatangan = data
		arg.TandatanganNama = header.Filename
	}

	p, err := h.service.Daftar(r.Context(), arg)
	if err != nil {
		h.tulisError(w, err, "gagal menambahkan pengguna")
		return
	}

	api.WriteJSON(w, http.StatusCreated, keDTO(p))
}

func (h *Handler) Semua(w http.ResponseWriter, r *http.Request) {
	hasil, err := h.service.Semua(r.Context())
	if err != nil {
		h.tulisError(w, err, "gagal mengambil daftar pengguna")
		return
	}

	dto := make([]penggunaDTO, 0, len(hasil))
	for _, p := range hasil {
		dto = append(dto, keDTO(p))
	}
	api.WriteJSON(w, http.StatusOK, dto)
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "id tidak valid", nil)
		return
	}

	p, err := h.service.Detail(r.Context(), id)
	if err != nil {
		h.tulisError(w, err, "gagal mengambil pengguna")
		return
	}
	api.WriteJSON(w, http.StatusOK, keDTO(p))
}

func (h *Handler) Jumlah(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.Jumlah(r.Context())
	if err != nil {
		h.tulisError(w, err, "gagal menghitung pengguna")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]int64{"total": total})
}

// Ubah menerima JSON parsial; field yang tidak dikirim tidak berubah.
func (h *Handler) Ubah(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "id tidak valid", nil)
		return
	}

	var body struct {
		NamaLengkap *string `json:"nama_lengkap"`
		Nip         *string `json:"nip"`
		Email       *string `json:"email"`
		Username    *string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "body tidak valid", nil)
		return
	}

	p, err := h.service.Ubah(r.Context(), id, EditParams(body))
	if err != nil {
		h.tulisError(w, err, "gagal mengubah pengguna")
		return
	}
	api.WriteJSON(w, http.StatusOK, keDTO(p))
}

func (h *Handler) Hapus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "id tidak valid", nil)
		return
	}

	if err := h.service.Hapus(r.Context(), id); err != nil {
		h.tulisError(w, err, "gagal menghapus pengguna")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Pengguna berhasil dihapus"})
}

func (h *Handler) ResetSandi(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "id tidak valid", nil)
		return
	}

	var body struct {
		PasswordBaru string `json:"password_baru"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", "body tidak valid", nil)
		return
	}

	if err := h.service.ResetSandi(r.Context(), id, body.PasswordBaru); err != nil {
		h.tulisError(w, err, "gagal reset password")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password berhasil direset"})
}

func (h *Handler) tulisError(w http.ResponseWriter, err error, konteks string) {
	var ve *util.ValidationError
	switch {
	case errors.As(err, &ve):
		api.WriteError(w, http.StatusBadRequest, "VALIDATION", ve.Pesan, nil)
	case errors.Is(err, ErrDuplikat):
		api.WriteError(w, http.StatusConflict, "CONFLICT", ErrDuplikat.Error(), nil)
	case errors.Is(err, repo.ErrNotFound):
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Pengguna tidak ditemukan", nil)
	default:
		log.Error().Err(err).Msg(konteks)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "terjadi kesalahan pada server", nil)
	}
}
