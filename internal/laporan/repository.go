package laporan

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/silahar3272/silahar/internal/db"
)

const dbTimeout = 3 * time.Second

var (
	// ErrJadwalBentrok menandakan slot waktu tumpang tindih dengan laporan lain.
	ErrJadwalBentrok = errors.New("slot waktu bertabrakan dengan laporan lain")
	// ErrPenggunaTidakDitemukan menandakan pengguna pelapor tidak ada.
	ErrPenggunaTidakDitemukan = errors.New("pengguna tidak ditemukan")
	// ErrTidakAdaLaporan menandakan query tidak menemukan laporan satu pun.
	ErrTidakAdaLaporan = errors.New("laporan tidak ditemukan")
)

// Laporan merepresentasikan satu baris laporan kegiatan. Nama lengkap dan NIP
// merupakan snapshot saat laporan dibuat, bukan join.
type Laporan struct {
	ID           uuid.UUID `json:"id"`
	PenggunaID   uuid.UUID `json:"pengguna_id"`
	Tanggal      time.Time `json:"tanggal"`
	JamMulai     string    `json:"jam_mulai"`
	JamSelesai   string    `json:"jam_selesai"`
	Deskripsi    string    `json:"deskripsi"`
	FotoKegiatan *string   `json:"foto_kegiatan,omitempty"`
	NamaLengkap  string    `json:"nama_lengkap"`
	Nip          string    `json:"nip"`
	DibuatPada   time.Time `json:"dibuat_pada"`
}

// LaporanRender adalah baris laporan yang sudah digabung dengan tandatangan
// pengguna, siap dipakai pipeline render PDF.
type LaporanRender struct {
	Laporan
	Tandatangan *string `json:"tandatangan,omitempty"`
}

// GrafikSlot adalah potongan data untuk grafik kehadiran hari ini.
type GrafikSlot struct {
	NamaLengkap string `json:"nama_lengkap"`
	JamMulai    string `json:"jam_mulai"`
	JamSelesai  string `json:"jam_selesai"`
}

// SimpanLaporanParams parameter insert laporan baru. Menit dihitung dari jam
// yang sudah tervalidasi dan dipakai untuk cek bentrok + constraint database.
// Tanggal tidak dikirim dari aplikasi; insert memakai CURRENT_DATE.
type SimpanLaporanParams struct {
	PenggunaID   uuid.UUID
	JamMulai     string
	JamSelesai   string
	MenitMulai   int
	MenitSelesai int
	Deskripsi    string
	FotoKegiatan *string
}

// Repository menyediakan akses data laporan.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// SimpanLaporan menjalankan cek bentrok, pengambilan snapshot pengguna, dan
// insert dalam satu transaksi. Cek COUNT menangkap bentrok terhadap laporan
// yang sudah ter-commit; dua submit yang benar-benar serentak sama-sama melihat
// COUNT nol, dan yang kalah commit ditolak constraint EXCLUDE lalu dipetakan ke
// ErrJadwalBentrok. Tanggal diisi CURRENT_DATE supaya satu jam database yang
// menentukan "hari ini", sama dengan query baca.
func (r *Repository) SimpanLaporan(ctx context.Context, arg SimpanLaporanParams) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var id uuid.UUID
	err := db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		// Bentrok bila interval lama dan baru saling memotong: s < selesai && e > mulai.
		var bentrok int64
		if err := tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM laporan
			WHERE pengguna_id = $1 AND tanggal = CURRENT_DATE
			  AND menit_mulai < $3 AND menit_selesai > $2
		`, arg.PenggunaID, arg.MenitMulai, arg.MenitSelesai).Scan(&bentrok); err != nil {
			return err
		}
		if bentrok > 0 {
			return ErrJadwalBentrok
		}

		var namaLengkap, nip string
		err := tx.QueryRow(ctx, `SELECT nama_lengkap, nip FROM pengguna WHERE id = $1`, arg.PenggunaID).
			Scan(&namaLengkap, &nip)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPenggunaTidakDitemukan
		}
		if err != nil {
			return err
		}

		return tx.QueryRow(ctx, `
			INSERT INTO laporan (id, pengguna_id, tanggal, jam_mulai, jam_selesai, menit_mulai, menit_selesai, deskripsi, foto_kegiatan, nama_lengkap, nip)
			VALUES ($1, $2, CURRENT_DATE, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`, uuid.New(), arg.PenggunaID, arg.JamMulai, arg.JamSelesai,
			arg.MenitMulai, arg.MenitSelesai, arg.Deskripsi, arg.FotoKegiatan, namaLengkap, nip).Scan(&id)
	})
	if err != nil {
		return uuid.Nil, terjemahkanBentrok(err)
	}
	return id, nil
}

// terjemahkanBentrok memetakan pelanggaran constraint EXCLUDE
// laporan_tanpa_tumpang_tindih (kode 23P01) menjadi ErrJadwalBentrok; error
// lain diteruskan apa adanya.
func terjemahkanBentrok(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
		return ErrJadwalBentrok
	}
	return err
}

const laporanColumns = `id, pengguna_id, tanggal, jam_mulai, jam_selesai, deskripsi, foto_kegiatan, nama_lengkap, nip, dibuat_pada`

func scanLaporanRows(rows pgx.Rows) ([]Laporan, error) {
	defer rows.Close()

	var hasil []Laporan
	for rows.Next() {
		var l Laporan
		if err := rows.Scan(&l.ID, &l.PenggunaID, &l.Tanggal, &l.JamMulai, &l.JamSelesai,
			&l.Deskripsi, &l.FotoKegiatan, &l.NamaLengkap, &l.Nip, &l.DibuatPada); err != nil {
			return nil, err
		}
		hasil = append(hasil, l)
	}
	return hasil, rows.Err()
}

func scanRenderRows(rows pgx.Rows) ([]LaporanRender, error) {
	defer rows.Close()

	var hasil []LaporanRender
	for rows.Next() {
		var l LaporanRender
		if err := rows.Scan(&l.ID, &l.PenggunaID, &l.Tanggal, &l.JamMulai, &l.JamSelesai,
			&l.Deskripsi, &l.FotoKegiatan, &l.NamaLengkap, &l.Nip, &l.DibuatPada, &l.Tandatangan); err != nil {
			return nil, err
		}
		hasil = append(hasil, l)
	}
	return hasil, rows.Err()
}

// ListHariIni mengambil seluruh laporan bertanggal hari ini.
func (r *Repository) ListHariIni(ctx context.Context) ([]Laporan, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+laporanColumns+` FROM laporan
		WHERE tanggal = CURRENT_DATE
		ORDER BY menit_mulai, nama_lengkap
	`)
	if err != nil {
		return nil, err
	}
	return scanLaporanRows(rows)
}

// ListByPenggunaTanggal mengambil laporan satu pengguna pada satu tanggal.
func (r *Repository) ListByPenggunaTanggal(ctx context.Context, penggunaID uuid.UUID, tanggal time.Time) ([]Laporan, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+laporanColumns+` FROM laporan
		WHERE pengguna_id = $1 AND tanggal = $2
		ORDER BY menit_mulai
	`, penggunaID, tanggal)
	if err != nil {
		return nil, err
	}
	return scanLaporanRows(rows)
}

const renderColumns = `l.id, l.pengguna_id, l.tanggal, l.jam_mulai, l.jam_selesai, l.deskripsi, l.foto_kegiatan, l.nama_lengkap, l.nip, l.dibuat_pada, p.tandatangan`

// RenderByPenggunaTanggal mengambil baris siap-render untuk satu pengguna dan
// satu tanggal.
func (r *Repository) RenderByPenggunaTanggal(ctx context.Context, penggunaID uuid.UUID, tanggal time.Time) ([]LaporanRender, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+renderColumns+`
		FROM laporan l
		JOIN pengguna p ON p.id = l.pengguna_id
		WHERE l.pengguna_id = $1 AND l.tanggal = $2
		ORDER BY l.menit_mulai
	`, penggunaID, tanggal)
	if err != nil {
		return nil, err
	}
	return scanRenderRows(rows)
}

// RenderRentang mengambil baris siap-render seluruh pengguna dalam rentang
// tanggal, diurutkan per nama supaya dokumen mudah dibaca.
func (r *Repository) RenderRentang(ctx context.Context, awal, akhir time.Time) ([]LaporanRender, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+renderColumns+`
		FROM laporan l
		JOIN pengguna p ON p.id = l.pengguna_id
		WHERE l.tanggal BETWEEN $1 AND $2
		ORDER BY l.nama_lengkap, l.tanggal, l.menit_mulai
	`, awal, akhir)
	if err != nil {
		return nil, err
	}
	return scanRenderRows(rows)
}

// RenderRentangPengguna seperti RenderRentang tetapi dibatasi satu pengguna.
func (r *Repository) RenderRentangPengguna(ctx context.Context, penggunaID uuid.UUID, awal, akhir time.Time) ([]LaporanRender, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+renderColumns+`
		FROM laporan l
		JOIN pengguna p ON p.id = l.pengguna_id
		WHERE l.pengguna_id = $1 AND l.tanggal BETWEEN $2 AND $3
		ORDER BY l.tanggal, l.menit_mulai
	`, penggunaID, awal, akhir)
	if err != nil {
		return nil, err
	}
	return scanRenderRows(rows)
}

// GrafikHariIni mengambil pasangan nama + slot jam hari ini untuk grafik.
func (r *Repository) GrafikHariIni(ctx context.Context) ([]GrafikSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT l.nama_lengkap, l.jam_mulai, l.jam_selesai
		FROM laporan l
		WHERE l.tanggal = CURRENT_DATE
		ORDER BY l.menit_mulai
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hasil []GrafikSlot
	for rows.Next() {
		var g GrafikSlot
		if err := rows.Scan(&g.NamaLengkap, &g.JamMulai, &g.JamSelesai); err != nil {
			return nil, err
		}
		hasil = append(hasil, g)
	}
	return hasil, rows.Err()
}
