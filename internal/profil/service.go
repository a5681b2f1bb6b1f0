package profil

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/silahar3272/silahar/internal/repo"
	"github.com/silahar3272/silahar/internal/storage"
	"github.com/silahar3272/silahar/internal/util"
)

type profilRepository interface {
	GetPertama(ctx context.Context) (Profil, error)
	Get(ctx context.Context, id uuid.UUID) (Profil, error)
	List(ctx context.Context) ([]Profil, error)
	Insert(ctx context.Context, visiMisi, berakhlak *string) (Profil, error)
	Update(ctx context.Context, id uuid.UUID, visiMisi, berakhlak *string) (Profil, error)
	Hapus(ctx context.Context, id uuid.UUID) (Profil, error)
}

// Service memuat aturan pengelolaan gambar profil instansi.
type Service struct {
	repo      profilRepository
	penyimpan storage.Penyimpan
}

func NewService(r profilRepository, penyimpan storage.Penyimpan) *Service {
	return &Service{repo: r, penyimpan: penyimpan}
}

// GambarParams isi berkas gambar profil yang dikirim handler.
type GambarParams struct {
	VisiMisiNama  string
	VisiMisi      []byte
	BerakhlakNama string
	Berakhlak     []byte
}

// Simpan membuat profil bila belum ada atau mengganti gambar pada profil yang
// sudah ada; gambar lama yang tergantikan dibuang.
func (s *Service) Simpan(ctx context.Context, arg GambarParams) (Profil, error) {
	if len(arg.VisiMisi) == 0 && len(arg.Berakhlak) == 0 {
		return Profil{}, &util.ValidationError{Pesan: "minimal satu gambar wajib diunggah"}
	}

	visiMisi, err := s.unggah(ctx, "visi_misi", arg.VisiMisiNama, arg.VisiMisi)
	if err != nil {
		return Profil{}, err
	}
	berakhlak, err := s.unggah(ctx, "berakhlak", arg.BerakhlakNama, arg.Berakhlak)
	if err != nil {
		return Profil{}, err
	}

	lama, err := s.repo.GetPertama(ctx)
	if errors.Is(err, repo.ErrNotFound) {
		return s.repo.Insert(ctx, visiMisi, berakhlak)
	}
	if err != nil {
		return Profil{}, err
	}

	p, err := s.repo.Update(ctx, lama.ID, visiMisi, berakhlak)
	if err != nil {
		return Profil{}, err
	}

	if visiMisi != nil {
		s.buang(ctx, lama.VisiMisiImage)
	}
	if berakhlak != nil {
		s.buang(ctx, lama.BerakhlakImage)
	}
	return p, nil
}

func (s *Service) Semua(ctx context.Context) ([]Profil, error) {
	return s.repo.List(ctx)
}

// VisiMisi mengambil ref gambar visi-misi saja.
func (s *Service) VisiMisi(ctx context.Context) (*string, error) {
	p, err := s.repo.GetPertama(ctx)
	if err != nil {
		return nil, err
	}
	return p.VisiMisiImage, nil
}

// Berakhlak mengambil ref gambar BerAKHLAK saja.
func (s *Service) Berakhlak(ctx context.Context) (*string, error) {
	p, err := s.repo.GetPertama(ctx)
	if err != nil {
		return nil, err
	}
	return p.BerakhlakImage, nil
}

// Ubah mengganti gambar profil tertentu, gambar lama dibuang.
func (s *Service) Ubah(ctx context.Context, id uuid.UUID, arg GambarParams) (Profil, error) {
	lama, err := s.repo.Get(ctx, id)
	if err != nil {
		return Profil{}, err
	}

	visiMisi, err := s.unggah(ctx, "visi_misi", arg.VisiMisiNama, arg.VisiMisi)
	if err != nil {
		return Profil{}, err
	}
	berakhlak, err := s.unggah(ctx, "berakhlak", arg.BerakhlakNama, arg.Berakhlak)
	if err != nil {
		return Profil{}, err
	}

	p, err := s.repo.Update(ctx, id, visiMisi, berakhlak)
	if err != nil {
		return Profil{}, err
	}

	if visiMisi != nil {
		s.buang(ctx, lama.VisiMisiImage)
	}
	if berakhlak != nil {
		s.buang(ctx, lama.BerakhlakImage)
	}
	return p, nil
}

// Hapus membuang profil beserta kedua gambarnya.
func (s *Service) Hapus(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.Hapus(ctx, id)
	if err != nil {
		return err
	}

	s.buang(ctx, p.VisiMisiImage)
	s.buang(ctx, p.BerakhlakImage)
	return nil
}

func (s *Service) unggah(ctx context.Context, folder, nama string, data []byte) (*string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if err := storage.CekGambar(nama, data); err != nil {
		return nil, err
	}

	berkas, err := s.penyimpan.Simpan(ctx, folder, nama, data)
	if err != nil {
		return nil, err
	}
	return &berkas.Ref, nil
}

func (s *Service) buang(ctx context.Context, ref *string) {
	if ref == nil {
		return
	}
	if err := s.penyimpan.Hapus(ctx, *ref); err != nil {
		log.Warn().Err(err).Str("gambar", *ref).Msg("gagal menghapus gambar profil lama")
	}
}
