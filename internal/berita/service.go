package berita

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/silahar3272/silahar/internal/storage"
	"github.com/silahar3272/silahar/internal/util"
)

type beritaRepository interface {
	Tambah(ctx context.Context, arg TambahParams) (Berita, error)
	List(ctx context.Context) ([]Berita, error)
	Get(ctx context.Context, id uuid.UUID) (Berita, error)
	Ubah(ctx context.Context, id uuid.UUID, arg UbahParams) (Berita, error)
	Hapus(ctx context.Context, id uuid.UUID) (Berita, error)
	SebarNotifikasi(ctx context.Context, pesan string) (int64, error)
}

// Service memuat aturan pengelolaan berita.
type Service struct {
	repo      beritaRepository
	penyimpan storage.Penyimpan
}

func NewService(r beritaRepository, penyimpan storage.Penyimpan) *Service {
	return &Service{repo: r, penyimpan: penyimpan}
}

// BuatParams data artikel baru dari handler; Gambar opsional berupa isi berkas.
type BuatParams struct {
	Category   string
	Title      string
	Subtitle   string
	Date       time.Time
	Time       string
	GambarNama string
	Gambar     []byte
}

// Buat menyimpan artikel lalu menyebar notifikasi ke semua pegawai.
// Kegagalan notifikasi tidak membatalkan artikel yang sudah tersimpan,
// hanya dicatat.
func (s *Service) Buat(ctx context.Context, arg BuatParams) (Berita, error) {
	if err := util.RequireString(arg.Title, "title"); err != nil {
		return Berita{}, err
	}
	if err := util.RequireString(arg.Category, "category"); err != nil {
		return Berita{}, err
	}

	var imageURL *string
	if len(arg.Gambar) > 0 {
		if err := storage.CekGambar(arg.GambarNama, arg.Gambar); err != nil {
			return Berita{}, err
		}
		berkas, err := s.penyimpan.Simpan(ctx, "fotoberita", arg.GambarNama, arg.Gambar)
		if err != nil {
			return Berita{}, err
		}
		imageURL = &berkas.Ref
	}

	b, err := s.repo.Tambah(ctx, TambahParams{
		ImageURL: imageURL,
		Category: arg.Category,
		Title:    arg.Title,
		Subtitle: arg.Subtitle,
		Date:     arg.Date,
		Time:     arg.Time,
	})
	if err != nil {
		if imageURL != nil {
			if hapusErr := s.penyimpan.Hapus(ctx, *imageURL); hapusErr != nil {
				log.Warn().Err(hapusErr).Str("gambar", *imageURL).Msg("gagal membuang gambar yatim")
			}
		}
		return Berita{}, err
	}

	if jumlah, err := s.repo.SebarNotifikasi(ctx, "Berita baru: "+b.Title); err != nil {
		log.Warn().Err(err).Str("berita", b.ID.String()).Msg("berita tersimpan, notifikasi gagal disebar")
	} else {
		log.Info().Int64("jumlah", jumlah).Str("berita", b.ID.String()).Msg("notifikasi berita disebar")
	}

	return b, nil
}

func (s *Service) Semua(ctx context.Context) ([]Berita, error) {
	return s.repo.List(ctx)
}

func (s *Service) Detail(ctx context.Context, id uuid.UUID) (Berita, error) {
	return s.repo.Get(ctx, id)
}

// UbahArtikelParams perubahan parsial artikel, gambar baru opsional.
type UbahArtikelParams struct {
	Category   *string
	Title      *string
	Subtitle   *string
	Date       *time.Time
	Time       *string
	GambarNama string
	Gambar     []byte
}

// Ubah menerapkan perubahan parsial. Gambar baru menggantikan yang lama;
// berkas lama dibuang setelah update berhasil.
func (s *Service) Ubah(ctx context.Context, id uuid.UUID, arg UbahArtikelParams) (Berita, error) {
	kosong := arg.Category == nil && arg.Title == nil && arg.Subtitle == nil &&
		arg.Date == nil && arg.Time == nil && len(arg.Gambar) == 0
	if kosong {
		return Berita{}, &util.ValidationError{Pesan: "tidak ada data yang diubah"}
	}

	var imageURL *string
	var gambarLama *string
	if len(arg.Gambar) > 0 {
		if err := storage.CekGambar(arg.GambarNama, arg.Gambar); err != nil {
			return Berita{}, err
		}

		lama, err := s.repo.Get(ctx, id)
		if err != nil {
			return Berita{}, err
		}
		gambarLama = lama.ImageURL

		berkas, err := s.penyimpan.Simpan(ctx, "fotoberita", arg.GambarNama, arg.Gambar)
		if err != nil {
			return Berita{}, err
		}
		imageURL = &berkas.Ref
	}

	b, err := s.repo.Ubah(ctx, id, UbahParams{
		ImageURL: imageURL,
		Category: arg.Category,
		Title:    arg.Title,
		Subtitle: arg.Subtitle,
		Date:     arg.Date,
		Time:     arg.Time,
	})
	if err != nil {
		if imageURL != nil {
			if hapusErr := s.penyimpan.Hapus(ctx, *imageURL); hapusErr != nil {
				log.Warn().Err(hapusErr).Str("gambar", *imageURL).Msg("gagal membuang gambar yatim")
			}
		}
		return Berita{}, err
	}

	if gambarLama != nil {
		if err := s.penyimpan.Hapus(ctx, *gambarLama); err != nil {
			log.Warn().Err(err).Str("gambar", *gambarLama).Msg("gagal menghapus gambar lama")
		}
	}
	return b, nil
}

// Hapus membuang artikel beserta gambarnya.
func (s *Service) Hapus(ctx context.Context, id uuid.UUID) error {
	b, err := s.repo.Hapus(ctx, id)
	if err != nil {
		return err
	}

	if b.ImageURL != nil {
		if err := s.penyimpan.Hapus(ctx, *b.ImageURL); err != nil {
			log.Warn().Err(err).Str("gambar", *b.ImageURL).Msg("gagal menghapus gambar berita")
		}
	}
	return nil
}
