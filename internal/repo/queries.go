package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 3 * time.Second

// Queries menyediakan akses data lintas modul (pengguna + sesi).
type Queries struct {
	db *pgxpool.Pool
}

// New membuat Queries di atas pool.
func New(pool *pgxpool.Pool) *Queries {
	return &Queries{db: pool}
}

const penggunaColumns = `id, nama_lengkap, nip, email, username, role, sandi_hash, tandatangan, dibuat_pada`

func scanPengguna(row pgx.Row) (Pengguna, error) {
	var p Pengguna
	err := row.Scan(&p.ID, &p.NamaLengkap, &p.Nip, &p.Email, &p.Username, &p.Role, &p.SandiHash, &p.Tandatangan, &p.DibuatPada)
	if errors.Is(err, pgx.ErrNoRows) {
		return Pengguna{}, ErrNotFound
	}
	return p, err
}

// GetPenggunaByUsername mencari pengguna berdasarkan username (persis, case-sensitive).
func (q *Queries) GetPenggunaByUsername(ctx context.Context, username string) (Pengguna, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := q.db.QueryRow(ctx, `SELECT `+penggunaColumns+` FROM pengguna WHERE username = $1`, username)
	return scanPengguna(row)
}

// GetPenggunaByID mengambil pengguna berdasarkan id.
func (q *Queries) GetPenggunaByID(ctx context.Context, id uuid.UUID) (Pengguna, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := q.db.QueryRow(ctx, `SELECT `+penggunaColumns+` FROM pengguna WHERE id = $1`, id)
	return scanPengguna(row)
}

// InsertRefreshToken menyimpan refresh token baru (hash saja, bukan token mentah).
func (q *Queries) InsertRefreshToken(ctx context.Context, arg InsertRefreshTokenParams) (TokenRefresh, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := q.db.QueryRow(ctx, `
		INSERT INTO token_refresh (id, pengguna_id, token_hash, kedaluwarsa)
		VALUES ($1, $2, $3, $4)
		RETURNING id, pengguna_id, token_hash, kedaluwarsa, dibuat_pada, dicabut
	`, arg.ID, arg.PenggunaID, arg.TokenHash, arg.Kedaluwarsa)

	var t TokenRefresh
	err := row.Scan(&t.ID, &t.PenggunaID, &t.TokenHash, &t.Kedaluwarsa, &t.DibuatPada, &t.Dicabut)
	return t, err
}

// GetRefreshTokenByHash mencari refresh token yang masih hidup.
func (q *Queries) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (TokenRefresh, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := q.db.QueryRow(ctx, `
		SELECT id, pengguna_id, token_hash, kedaluwarsa, dibuat_pada, dicabut
		FROM token_refresh
		WHERE token_hash = $1
	`, tokenHash)

	var t TokenRefresh
	err := row.Scan(&t.ID, &t.PenggunaID, &t.TokenHash, &t.Kedaluwarsa, &t.DibuatPada, &t.Dicabut)
	if errors.Is(err, pgx.ErrNoRows) {
		return TokenRefresh{}, ErrNotFound
	}
	return t, err
}

// RevokeRefreshToken mencabut satu refresh token.
func (q *Queries) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := q.db.Exec(ctx, `UPDATE token_refresh SET dicabut = TRUE WHERE token_hash = $1`, tokenHash)
	return err
}

// RevokeRefreshTokensByPengguna mencabut semua sesi milik satu pengguna.
func (q *Queries) RevokeRefreshTokensByPengguna(ctx context.Context, penggunaID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := q.db.Exec(ctx, `UPDATE token_refresh SET dicabut = TRUE WHERE pengguna_id = $1`, penggunaID)
	return err
}
