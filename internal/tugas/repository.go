package tugas

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/silahar3272/silahar/internal/repo"
)

const dbTimeout = 3 * time.Second

// Status tugas yang dikenal.
const (
	StatusBelumDikerjakan  = "belum_dikerjakan"
	StatusSedangDikerjakan = "sedang_dikerjakan"
	StatusSelesai          = "selesai"
)

// ErrBukanPemilik menandakan tugas bukan milik pengguna yang meminta.
var ErrBukanPemilik = errors.New("anda tidak memiliki akses untuk mengubah tugas ini")

// Tugas penugasan dari admin ke seorang pegawai.
type Tugas struct {
	ID               uuid.UUID  `json:"id"`
	PenggunaID       uuid.UUID  `json:"user_id"`
	AdminID          uuid.UUID  `json:"admin_id"`
	Judul            string     `json:"judul"`
	Deskripsi        string     `json:"deskripsi"`
	Status           string     `json:"status"`
	TanggalDiberikan time.Time  `json:"tanggal_diberikan"`
	TanggalDeadline  time.Time  `json:"tanggal_deadline"`
	DiperbaruiPada   *time.Time `json:"updated_at,omitempty"`
}

// TugasDenganNama baris tugas dilengkapi nama pengguna dan admin untuk
// tampilan daftar.
type TugasDenganNama struct {
	Tugas
	NamaPengguna string  `json:"nama_pengguna"`
	NamaAdmin    *string `json:"nama_admin,omitempty"`
}

const tugasColumns = `id, user_id, admin_id, judul, deskripsi, status, tanggal_diberikan, tanggal_deadline, updated_at`

// Repository menyediakan akses data tugas.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// BuatParams data tugas baru; tanggal diberikan diisi server.
type BuatParams struct {
	PenggunaID      uuid.UUID
	AdminID         uuid.UUID
	Judul           string
	Deskripsi       string
	TanggalDeadline time.Time
}

func (r *Repository) Buat(ctx context.Context, arg BuatParams) (Tugas, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		INSERT INTO tugas (id, user_id, admin_id, judul, deskripsi, status, tanggal_diberikan, tanggal_deadline)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_DATE, $7)
		RETURNING `+tugasColumns,
		uuid.New(), arg.PenggunaID, arg.AdminID, arg.Judul, arg.Deskripsi, StatusBelumDikerjakan, arg.TanggalDeadline)
	return scanTugas(row)
}

// ListSemua mengambil seluruh tugas beserta nama pengguna dan pemberi tugas,
// diurutkan dari deadline terdekat.
func (r *Repository) ListSemua(ctx context.Context) ([]TugasDenganNama, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT t.id, t.user_id, t.admin_id, t.judul, t.deskripsi, t.status,
		       t.tanggal_diberikan, t.tanggal_deadline, t.updated_at,
		       p.nama_lengkap, a.nama_lengkap
		FROM tugas t
		JOIN pengguna p ON p.id = t.user_id
		LEFT JOIN pengguna a ON a.id = t.admin_id
		ORDER BY t.tanggal_deadline
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hasil []TugasDenganNama
	for rows.Next() {
		var t TugasDenganNama
		if err := rows.Scan(&t.ID, &t.PenggunaID, &t.AdminID, &t.Judul, &t.Deskripsi, &t.Status,
			&t.TanggalDiberikan, &t.TanggalDeadline, &t.DiperbaruiPada,
			&t.NamaPengguna, &t.NamaAdmin); err != nil {
			return nil, err
		}
		hasil = append(hasil, t)
	}
	return hasil, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Tugas, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `SELECT `+tugasColumns+` FROM tugas WHERE id = $1`, id)
	return scanTugas(row)
}

// UbahParams pembaruan tugas oleh admin.
type UbahParams struct {
	Judul           string
	Deskripsi       string
	TanggalDeadline time.Time
}

func (r *Repository) Ubah(ctx context.Context, id uuid.UUID, arg UbahParams) (Tugas, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		UPDATE tugas
		SET judul = $2, deskripsi = $3, tanggal_deadline = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+tugasColumns,
		id, arg.Judul, arg.Deskripsi, arg.TanggalDeadline)
	return scanTugas(row)
}

func (r *Repository) Hapus(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM tugas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ListByPengguna mengambil tugas milik satu pegawai, deadline terdekat dulu.
func (r *Repository) ListByPengguna(ctx context.Context, penggunaID uuid.UUID) ([]Tugas, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+tugasColumns+` FROM tugas
		WHERE user_id = $1
		ORDER BY tanggal_deadline
	`, penggunaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hasil []Tugas
	for rows.Next() {
		t, err := scanTugas(rows)
		if err != nil {
			return nil, err
		}
		hasil = append(hasil, t)
	}
	return hasil, rows.Err()
}

// UbahStatus memperbarui status tugas milik penggunaID. Update dibatasi
// dengan predikat kepemilikan supaya pegawai lain tidak bisa menyentuhnya.
func (r *Repository) UbahStatus(ctx context.Context, id, penggunaID uuid.UUID, status string) (Tugas, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		UPDATE tugas
		SET status = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+tugasColumns,
		id, penggunaID, status)

	t, err := scanTugas(row)
	if errors.Is(err, repo.ErrNotFound) {
		// Bedakan tugas hilang dari tugas milik orang lain.
		var ada bool
		if cekErr := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tugas WHERE id = $1)`, id).Scan(&ada); cekErr != nil {
			return Tugas{}, cekErr
		}
		if ada {
			return Tugas{}, ErrBukanPemilik
		}
		return Tugas{}, repo.ErrNotFound
	}
	return t, err
}

func scanTugas(row pgx.Row) (Tugas, error) {
	var t Tugas
	err := row.Scan(&t.ID, &t.PenggunaID, &t.AdminID, &t.Judul, &t.Deskripsi, &t.Status,
		&t.TanggalDiberikan, &t.TanggalDeadline, &t.DiperbaruiPada)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tugas{}, repo.ErrNotFound
	}
	if err != nil {
		return Tugas{}, err
	}
	return t, nil
}
