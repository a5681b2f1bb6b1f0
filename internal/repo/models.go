package repo

import (
	"time"

	"github.com/google/uuid"
)

// Pengguna merepresentasikan pegawai pada tabel pengguna.
type Pengguna struct {
	ID          uuid.UUID
	NamaLengkap string
	Nip         string
	Email       string
	Username    string
	Role        string
	SandiHash   string
	Tandatangan *string
	DibuatPada  time.Time
}

// TokenRefresh memodelkan tabel token_refresh.
type TokenRefresh struct {
	ID         uuid.UUID
	PenggunaID uuid.UUID
	TokenHash  string
	Kedaluwarsa time.Time
	DibuatPada time.Time
	Dicabut    bool
}

// InsertRefreshTokenParams parameter penyimpanan refresh token baru.
type InsertRefreshTokenParams struct {
	ID          uuid.UUID
	PenggunaID  uuid.UUID
	TokenHash   string
	Kedaluwarsa time.Time
}
