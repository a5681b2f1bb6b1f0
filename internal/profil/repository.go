package profil

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

// Profil gambar visi-misi dan BerAKHLAK instansi. Praktis hanya ada satu
// baris; create-or-replace ditangani service.
type Profil struct {
	ID             uuid.UUID  `json:"id"`
	VisiMisiImage  *string    `json:"visi_misi_image,omitempty"`
	BerakhlakImage *string    `json:"berakhlak_image,omitempty"`
	DibuatPada     time.Time  `json:"dibuat_pada"`
	DiperbaruiPada *time.Time `json:"updated_at,omitempty"`
}

const profilColumns = `id, visi_misi_image, berakhlak_image, dibuat_pada, updated_at`

// Repository menyediakan akses data profil.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// GetPertama mengambil baris profil tunggal.
func (r *Repository) GetPertama(ctx context.Context) (Profil, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `SELECT `+profilColumns+` FROM profil LIMIT 1`)
	return scanProfil(row)
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Profil, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `SELECT `+profilColumns+` FROM profil WHERE id = $1`, id)
	return scanProfil(row)
}

func (r *Repository) List(ctx context.Context) ([]Profil, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+profilColumns+` FROM profil`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hasil []Profil
	for rows.Next() {
		p, err := scanProfil(rows)
		if err != nil {
			return nil, err
		}
		hasil = append(hasil, p)
	}
	return hasil, rows.Err()
}

func (r *Repository) Insert(ctx context.Context, visiMisi, berakhlak *string) (Profil, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		INSERT INTO profil (id, visi_misi_image, berakhlak_image)
		VALUES ($1, $2, $3)
		RETURNING `+profilColumns,
		uuid.New(), visiMisi, berakhlak)
	return scanProfil(row)
}

// Update mengganti gambar yang dikirim saja; nil mempertahankan yang lama.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, visiMisi, berakhlak *string) (Profil, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		UPDATE profil
		SET visi_misi_image = COALESCE($2, visi_misi_image),
		    berakhlak_image = COALESCE($3, berakhlak_image),
		    updated_at      = now()
		WHERE id = $1
		RETURNING `+profilColumns,
		id, visiMisi, berakhlak)
	return scanProfil(row)
}

func (r *Repository) Hapus(ctx context.Context, id uuid.UUID) (Profil, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `DELETE FROM profil WHERE id = $1 RETURNING `+profilColumns, id)
	return scanProfil(row)
}

func scanProfil(row pgx.Row) (Profil, error) {
	var p Profil
	err := row.Scan(&p.ID, &p.VisiMisiImage, &p.BerakhlakImage, &p.DibuatPada, &p.DiperbaruiPada)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profil{}, repo.ErrNotFound
	}
	if err != nil {
		return Profil{}, err
	}
	return p, nil
}
