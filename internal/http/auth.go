package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/silahar3272/silahar/internal/http/middleware"
	"github.com/silahar3272/silahar/internal/repo"
	"github.com/silahar3272/silahar/internal/service"
)

// AuthHandler melayani endpoint autentikasi dan sesi.
type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Routes mendaftarkan endpoint publik autentikasi.
func (h *AuthHandler) Routes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)
}

type penggunaRingkas struct {
	ID          uuid.UUID `json:"id"`
	NamaLengkap string    `json:"nama_lengkap"`
	Nip         string    `json:"nip"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	Tandatangan *string   `json:"tandatangan,omitempty"`
}

func ringkas(p repo.Pengguna) penggunaRingkas {
	return penggunaRingkas{
		ID:          p.ID,
		NamaLengkap: p.NamaLengkap,
		Nip:         p.Nip,
		Email:       p.Email,
		Username:    p.Username,
		Role:        p.Role,
		Tandatangan: p.Tandatangan,
	}
}

type sesiResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	Pengguna     penggunaRingkas `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "body tidak valid", nil)
		return
	}
	if body.Username == "" || body.Password == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "username dan password wajib diisi", nil)
		return
	}

	hasil, err := h.service.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		h.tulisError(w, err, "login gagal")
		return
	}

	WriteJSON(w, http.StatusOK, sesiResponse{
		AccessToken:  hasil.AccessToken,
		RefreshToken: hasil.RefreshToken,
		Pengguna:     ringkas(hasil.Pengguna),
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "refresh_token wajib diisi", nil)
		return
	}

	hasil, err := h.service.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		h.tulisError(w, err, "refresh gagal")
		return
	}

	WriteJSON(w, http.StatusOK, sesiResponse{
		AccessToken:  hasil.AccessToken,
		RefreshToken: hasil.RefreshToken,
		Pengguna:     ringkas(hasil.Pengguna),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	// Body kosong tetap dianggap logout sah, token lama tinggal kedaluwarsa.
	_ = json.NewDecoder(r.Body).Decode(&body)

	if err := h.service.Logout(r.Context(), body.RefreshToken); err != nil {
		h.tulisError(w, err, "logout gagal")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Berhasil keluar"})
}

// Me mengembalikan profil pengguna yang sedang masuk, diturunkan dari token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(middleware.GetSubject(r.Context()))
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "token tidak valid", nil)
		return
	}

	pengguna, err := h.service.Profil(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "Pengguna tidak ditemukan", nil)
			return
		}
		h.tulisError(w, err, "gagal mengambil profil")
		return
	}
	WriteJSON(w, http.StatusOK, ringkas(pengguna))
}

func (h *AuthHandler) tulisError(w http.ResponseWriter, err error, konteks string) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "AUTH", service.ErrInvalidCredentials.Error(), nil)
	case errors.Is(err, service.ErrRefreshInvalid):
		WriteError(w, http.StatusUnauthorized, "AUTH", service.ErrRefreshInvalid.Error(), nil)
	default:
		log.Error().Err(err).Msg(konteks)
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "terjadi kesalahan pada server", nil)
	}
}
