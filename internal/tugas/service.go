package tugas

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/silahar3272/silahar/internal/util"
)

type tugasRepository interface {
	Buat(ctx context.Context, arg BuatParams) (Tugas, error)
	ListSemua(ctx context.Context) ([]TugasDenganNama, error)
	Get(ctx context.Context, id uuid.UUID) (Tugas, error)
	Ubah(ctx context.Context, id uuid.UUID, arg UbahParams) (Tugas, error)
	Hapus(ctx context.Context, id uuid.UUID) error
	ListByPengguna(ctx context.Context, penggunaID uuid.UUID) ([]Tugas, error)
	UbahStatus(ctx context.Context, id, penggunaID uuid.UUID, status string) (Tugas, error)
}

// Service memuat aturan penugasan.
type Service struct {
	repo tugasRepository
}

func NewService(r tugasRepository) *Service {
	return &Service{repo: r}
}

// Buat membuat tugas baru. AdminID diambil dari token pembuat.
func (s *Service) Buat(ctx context.Context, arg BuatParams) (Tugas, error) {
	if err := util.RequireString(arg.Judul, "judul"); err != nil {
		return Tugas{}, err
	}
	if arg.TanggalDeadline.IsZero() {
		return Tugas{}, &util.ValidationError{Pesan: "tanggal_deadline wajib diisi"}
	}
	return s.repo.Buat(ctx, arg)
}

func (s *Service) Semua(ctx context.Context) ([]TugasDenganNama, error) {
	return s.repo.ListSemua(ctx)
}

func (s *Service) Detail(ctx context.Context, id uuid.UUID) (Tugas, error) {
	return s.repo.Get(ctx, id)
}

// Ubah memperbarui judul, deskripsi, dan deadline tugas.
func (s *Service) Ubah(ctx context.Context, id uuid.UUID, judul, deskripsi string, deadline time.Time) (Tugas, error) {
	if err := util.RequireString(judul, "judul"); err != nil {
		return Tugas{}, err
	}
	if deadline.IsZero() {
		return Tugas{}, &util.ValidationError{Pesan: "tanggal_deadline wajib diisi"}
	}
	return s.repo.Ubah(ctx, id, UbahParams{Judul: judul, Deskripsi: deskripsi, TanggalDeadline: deadline})
}

func (s *Service) Hapus(ctx context.Context, id uuid.UUID) error {
	return s.repo.Hapus(ctx, id)
}

func (s *Service) MilikPengguna(ctx context.Context, penggunaID uuid.UUID) ([]Tugas, error) {
	return s.repo.ListByPengguna(ctx, penggunaID)
}

// UbahStatus memindahkan status tugas milik pengguna yang meminta.
func (s *Service) UbahStatus(ctx context.Context, id, penggunaID uuid.UUID, status string) (Tugas, error) {
	switch status {
	case StatusBelumDikerjakan, StatusSedangDikerjakan, StatusSelesai:
	default:
		return Tugas{}, &util.ValidationError{
			Pesan: "status tidak valid, pilihan: belum_dikerjakan, sedang_dikerjakan, selesai",
		}
	}
	return s.repo.UbahStatus(ctx, id, penggunaID, status)
}
