package berita

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

// Berita satu artikel pengumuman internal. Nama kolom mengikuti skema lama
// supaya klien yang ada tidak perlu berubah.
type Berita struct {
	ID         uuid.UUID `json:"id"`
	ImageURL   *string   `json:"image_url,omitempty"`
	Category   string    `json:"category"`
	Title      string    `json:"title"`
	Subtitle   string    `json:"subtitle"`
	Date       time.Time `json:"date"`
	Time       string    `json:"time"`
	DibuatPada time.Time `json:"dibuat_pada"`
}

const beritaColumns = `id, image_url, category, title, subtitle, date, time, dibuat_pada`

// Repository menyediakan akses data berita dan notifikasi turunannya.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// TambahParams data artikel baru.
type TambahParams struct {
	ImageURL *string
	Category string
	Title    string
	Subtitle string
	Date     time.Time
	Time     string
}

func (r *Repository) Tambah(ctx context.Context, arg TambahParams) (Berita, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		INSERT INTO berita (id, image_url, category, title, subtitle, date, time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+beritaColumns,
		uuid.New(), arg.ImageURL, arg.Category, arg.Title, arg.Subtitle, arg.Date, arg.Time)
	return scanBerita(row)
}

func (r *Repository) List(ctx context.Context) ([]Berita, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+beritaColumns+` FROM berita ORDER BY date DESC, time DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hasil []Berita
	for rows.Next() {
		b, err := scanBerita(rows)
		if err != nil {
			return nil, err
		}
		hasil = append(hasil, b)
	}
	return hasil, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Berita, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `SELECT `+beritaColumns+` FROM berita WHERE id = $1`, id)
	return scanBerita(row)
}

// UbahParams perubahan parsial; nil berarti kolom tidak disentuh.
type UbahParams struct {
	ImageURL *string
	Category *string
	Title    *string
	Subtitle *string
	Date     *time.Time
	Time     *string
}

func (r *Repository) Ubah(ctx context.Context, id uuid.UUID, arg UbahParams) (Berita, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		UPDATE berita
		SET image_url = COALESCE($2, image_url),
		    category  = COALESCE($3, category),
		    title     = COALESCE($4, title),
		    subtitle  = COALESCE($5, subtitle),
		    date      = COALESCE($6, date),
		    time      = COALESCE($7, time)
		WHERE id = $1
		RETURNING `+beritaColumns,
		id, arg.ImageURL, arg.Category, arg.Title, arg.Subtitle, arg.Date, arg.Time)
	return scanBerita(row)
}

// Hapus membuang artikel dan mengembalikan datanya untuk pembersihan gambar.
func (r *Repository) Hapus(ctx context.Context, id uuid.UUID) (Berita, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `DELETE FROM berita WHERE id = $1 RETURNING `+beritaColumns, id)
	return scanBerita(row)
}

// SebarNotifikasi menulis satu notifikasi per pegawai ber-role pengguna.
func (r *Repository) SebarNotifikasi(ctx context.Context, pesan string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		INSERT INTO notifikasi (pengguna_id, pesan)
		SELECT id, $1 FROM pengguna WHERE role = 'pengguna'
	`, pesan)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanBerita(row pgx.Row) (Berita, error) {
	var b Berita
	err := row.Scan(&b.ID, &b.ImageURL, &b.Category, &b.Title, &b.Subtitle, &b.Date, &b.Time, &b.DibuatPada)
	if errors.Is(err, pgx.ErrNoRows) {
		return Berita{}, repo.ErrNotFound
	}
	if err != nil {
		return Berita{}, err
	}
	return b, nil
}
