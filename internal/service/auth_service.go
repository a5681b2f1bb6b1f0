package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/silahar3272/silahar/internal/auth"
	"github.com/silahar3272/silahar/internal/repo"
)

var (
	// ErrInvalidCredentials menandakan kombinasi username/sandi salah.
	ErrInvalidCredentials = errors.New("username atau password salah")
	// ErrRefreshInvalid menandakan refresh token tidak dikenal, dicabut, atau
	// kedaluwarsa.
	ErrRefreshInvalid = errors.New("refresh token tidak valid")
)

type authRepository interface {
	GetPenggunaByUsername(ctx context.Context, username string) (repo.Pengguna, error)
	GetPenggunaByID(ctx context.Context, id uuid.UUID) (repo.Pengguna, error)
	InsertRefreshToken(ctx context.Context, arg repo.InsertRefreshTokenParams) (repo.TokenRefresh, error)
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (repo.TokenRefresh, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeRefreshTokensByPengguna(ctx context.Context, penggunaID uuid.UUID) error
}

// AuthService memusatkan aturan autentikasi dan sesi.
type AuthService struct {
	repo       authRepository
	jwt        *auth.JWTManager
	refreshTTL time.Duration
}

func NewAuthService(r *repo.Queries, jwtMgr *auth.JWTManager, refreshTTL time.Duration) *AuthService {
	return &AuthService{repo: r, jwt: jwtMgr, refreshTTL: refreshTTL}
}

// JWT mengekspos pengelola JWT untuk middleware.
func (s *AuthService) JWT() *auth.JWTManager {
	return s.jwt
}

// LoginResult hasil autentikasi yang berhasil.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	Pengguna     repo.Pengguna
}

// Login memverifikasi username + sandi lalu menerbitkan sepasang token.
func (s *AuthService) Login(ctx context.Context, username, sandi string) (*LoginResult, error) {
	user, err := s.repo.GetPenggunaByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			log.Warn().Msg("login: username tidak ditemukan")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.Verify(sandi, user.SandiHash)
	if err != nil {
		log.Warn().Err(err).Msg("login: verifikasi sandi gagal")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.terbitkanSesi(ctx, user)
}

// Refresh merotasi refresh token: token lama dicabut, sesi baru diterbitkan.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*LoginResult, error) {
	hash := auth.HashRefreshToken(rawToken)

	token, err := s.repo.GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}
	if token.Dicabut || time.Now().After(token.Kedaluwarsa) {
		return nil, ErrRefreshInvalid
	}

	user, err := s.repo.GetPenggunaByID(ctx, token.PenggunaID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}

	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return nil, err
	}

	return s.terbitkanSesi(ctx, user)
}

// Logout mencabut refresh token. Token yang sudah tidak dikenal dianggap
// berhasil keluar.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if strings.TrimSpace(rawToken) == "" {
		return nil
	}
	return s.repo.RevokeRefreshToken(ctx, auth.HashRefreshToken(rawToken))
}

// LogoutSemua mencabut seluruh sesi pengguna, dipakai saat reset sandi.
func (s *AuthService) LogoutSemua(ctx context.Context, penggunaID uuid.UUID) error {
	return s.repo.RevokeRefreshTokensByPengguna(ctx, penggunaID)
}

// Profil mengambil data pengguna yang sedang masuk.
func (s *AuthService) Profil(ctx context.Context, id uuid.UUID) (repo.Pengguna, error) {
	return s.repo.GetPenggunaByID(ctx, id)
}

func (s *AuthService) terbitkanSesi(ctx context.Context, user repo.Pengguna) (*LoginResult, error) {
	access, _, err := s.jwt.GenerateAccessToken(user.ID.String(), user.NamaLengkap, user.Nip, []string{user.Role})
	if err != nil {
		return nil, err
	}

	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	_, err = s.repo.InsertRefreshToken(ctx, repo.InsertRefreshTokenParams{
		ID:          uuid.New(),
		PenggunaID:  user.ID,
		TokenHash:   hash,
		Kedaluwarsa: time.Now().Add(s.refreshTTL),
	})
	if err != nil {
		return nil, err
	}

	return &LoginResult{AccessToken: access, RefreshToken: raw, Pengguna: user}, nil
}
