package pengguna

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/silahar3272/silahar/internal/repo"
)

const dbTimeout = 3 * time.Second

// ErrDuplikat menandakan username atau email sudah terdaftar.
var ErrDuplikat = errors.New("username atau email sudah digunakan")

const kolomTanpaSandi = `id, nama_lengkap, nip, email, username, role, tandatangan, dibuat_pada`

// Repository menyediakan akses data pengguna.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// TambahParams parameter pembuatan pengguna baru.
type TambahParams struct {
	NamaLengkap string
	Nip         string
	Email       string
	Username    string
	Role        string
	SandiHash   string
	Tandatangan *string
}

func (r *Repository) Tambah(ctx context.Context, arg TambahParams) (repo.Pengguna, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		INSERT INTO pengguna (id, nama_lengkap, nip, email, username, role, sandi_hash, tandatangan)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+kolomTanpaSandi,
		uuid.New(), arg.NamaLengkap, arg.Nip, arg.Email, arg.Username, arg.Role, arg.SandiHash, arg.Tandatangan)

	p, err := scanTanpaSandi(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repo.Pengguna{}, ErrDuplikat
		}
		return repo.Pengguna{}, err
	}
	return p, nil
}

func (r *Repository) List(ctx context.Context) ([]repo.Pengguna, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+kolomTanpaSandi+` FROM pengguna ORDER BY nama_lengkap`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hasil []repo.Pengguna
	for rows.Next() {
		p, err := scanTanpaSandi(rows)
		if err != nil {
			return nil, err
		}
		hasil = append(hasil, p)
	}
	return hasil, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (repo.Pengguna, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `SELECT `+kolomTanpaSandi+` FROM pengguna WHERE id = $1`, id)
	return scanTanpaSandi(row)
}

func (r *Repository) Jumlah(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM pengguna`).Scan(&total)
	return total, err
}

// EditParams kolom yang boleh diubah. Nilai nil berarti pertahankan yang lama.
type EditParams struct {
	NamaLengkap *string
	Nip         *string
	Email       *string
	Username    *string
}

// Edit menerapkan perubahan parsial: kolom yang tidak dikirim tetap memakai
// nilai tersimpan.
func (r *Repository) Edit(ctx context.Context, id uuid.UUID, arg EditParams) (repo.Pengguna, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		UPDATE pengguna
		SET nama_lengkap = COALESCE($2, nama_lengkap),
		    nip          = COALESCE($3, nip),
		    email        = COALESCE($4, email),
		    username     = COALESCE($5, username)
		WHERE id = $1
		RETURNING `+kolomTanpaSandi,
		id, arg.NamaLengkap, arg.Nip, arg.Email, arg.Username)

	p, err := scanTanpaSandi(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repo.Pengguna{}, ErrDuplikat
		}
		return repo.Pengguna{}, err
	}
	return p, nil
}

// Hapus membuang pengguna dan mengembalikan datanya supaya pemanggil bisa
// membereskan berkas tanda tangan.
func (r *Repository) Hapus(ctx context.Context, id uuid.UUID) (repo.Pengguna, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `DELETE FROM pengguna WHERE id = $1 RETURNING `+kolomTanpaSandi, id)
	return scanTanpaSandi(row)
}

func (r *Repository) SetSandi(ctx context.Context, id uuid.UUID, sandiHash string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE pengguna SET sandi_hash = $2 WHERE id = $1`, id, sandiHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func scanTanpaSandi(row pgx.Row) (repo.Pengguna, error) {
	var p repo.Pengguna
	err := row.Scan(&p.ID, &p.NamaLengkap, &p.Nip, &p.Email, &p.Username, &p.Role, &p.Tandatangan, &p.DibuatPada)
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.Pengguna{}, repo.ErrNotFound
	}
	if err != nil {
		return repo.Pengguna{}, err
	}
	return p, nil
}
