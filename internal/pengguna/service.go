package pengguna

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/silahar3272/silahar/internal/auth"
	"github.com/silahar3272/silahar/internal/repo"
	"github.com/silahar3272/silahar/internal/storage"
	"github.com/silahar3272/silahar/internal/util"
)

type penggunaRepository interface {
	Tambah(ctx context.Context, arg TambahParams) (repo.Pengguna, error)
	List(ctx context.Context) ([]repo.Pengguna, error)
	Get(ctx context.Context, id uuid.UUID) (repo.Pengguna, error)
	Jumlah(ctx context.Context) (int64, error)
	Edit(ctx context.Context, id uuid.UUID, arg EditParams) (repo.Pengguna, error)
	Hapus(ctx context.Context, id uuid.UUID) (repo.Pengguna, error)
	SetSandi(ctx context.Context, id uuid.UUID, sandiHash string) error
}

// PencabutSesi mencabut seluruh sesi aktif seorang pengguna.
type PencabutSesi interface {
	LogoutSemua(ctx context.Context, penggunaID uuid.UUID) error
}

// Service memuat aturan pengelolaan pegawai.
type Service struct {
	repo      penggunaRepository
	penyimpan storage.Penyimpan
	sesi      PencabutSesi
}

func NewService(r penggunaRepository, penyimpan storage.Penyimpan, sesi PencabutSesi) *Service {
	return &Service{repo: r, penyimpan: penyimpan, sesi: sesi}
}

// DaftarParams data pendaftaran pegawai baru. Tandatangan opsional berupa isi
// berkas gambar.
type DaftarParams struct {
	NamaLengkap     string
	Nip             string
	Email           string
	Username        string
	Sandi           string
	Role            string
	TandatanganNama string
	Tandatangan     []byte
}

// Daftar memvalidasi lalu membuat pengguna baru. Sandi di-hash dengan
// argon2id; role kosong jatuh ke "pengguna".
func (s *Service) Daftar(ctx context.Context, arg DaftarParams) (repo.Pengguna, error) {
	if err := util.RequireString(arg.NamaLengkap, "nama_lengkap"); err != nil {
		return repo.Pengguna{}, err
	}
	if err := util.RequireString(arg.Nip, "nip"); err != nil {
		return repo.Pengguna{}, err
	}
	if err := util.RequireString(arg.Username, "username"); err != nil {
		return repo.Pengguna{}, err
	}
	if err := util.ValidasiEmail(arg.Email); err != nil {
		return repo.Pengguna{}, err
	}
	if err := util.ValidasiSandi(arg.Sandi); err != nil {
		return repo.Pengguna{}, err
	}

	role := strings.ToLower(strings.TrimSpace(arg.Role))
	if role == "" {
		role = "pengguna"
	}

	hash, err := auth.Hash(arg.Sandi)
	if err != nil {
		return repo.Pengguna{}, err
	}

	var ttdRef *string
	if len(arg.Tandatangan) > 0 {
		if err := storage.CekGambar(arg.TandatanganNama, arg.Tandatangan); err != nil {
			return repo.Pengguna{}, err
		}
		berkas, err := s.penyimpan.Simpan(ctx, "tandatangan", arg.TandatanganNama, arg.Tandatangan)
		if err != nil {
			return repo.Pengguna{}, err
		}
		ttdRef = &berkas.Ref
	}

	p, err := s.repo.Tambah(ctx, TambahParams{
		NamaLengkap: strings.TrimSpace(arg.NamaLengkap),
		Nip:         strings.TrimSpace(arg.Nip),
		Email:       strings.ToLower(strings.TrimSpace(arg.Email)),
		Username:    strings.TrimSpace(arg.Username),
		Role:        role,
		SandiHash:   hash,
		Tandatangan: ttdRef,
	})
	if err != nil {
		// Insert gagal: tanda tangan yang terlanjur tersimpan dibuang.
		if ttdRef != nil {
			if hapusErr := s.penyimpan.Hapus(ctx, *ttdRef); hapusErr != nil {
				log.Warn().Err(hapusErr).Str("tandatangan", *ttdRef).Msg("gagal membuang tanda tangan yatim")
			}
		}
		return repo.Pengguna{}, err
	}
	return p, nil
}

func (s *Service) Semua(ctx context.Context) ([]repo.Pengguna, error) {
	return s.repo.List(ctx)
}

func (s *Service) Detail(ctx context.Context, id uuid.UUID) (repo.Pengguna, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Jumlah(ctx context.Context) (int64, error) {
	return s.repo.Jumlah(ctx)
}

// Ubah menerapkan perubahan parsial profil pengguna.
func (s *Service) Ubah(ctx context.Context, id uuid.UUID, arg EditParams) (repo.Pengguna, error) {
	if arg.Email != nil {
		if err := util.ValidasiEmail(*arg.Email); err != nil {
			return repo.Pengguna{}, err
		}
	}
	return s.repo.Edit(ctx, id, arg)
}

// Hapus membuang pengguna beserta berkas tanda tangannya. Kegagalan hapus
// berkas tidak membatalkan penghapusan akun.
func (s *Service) Hapus(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.Hapus(ctx, id)
	if err != nil {
		return err
	}

	if p.Tandatangan != nil {
		if err := s.penyimpan.Hapus(ctx, *p.Tandatangan); err != nil {
			log.Warn().Err(err).Str("tandatangan", *p.Tandatangan).Msg("gagal menghapus berkas tanda tangan")
		}
	}
	return nil
}

// ResetSandi mengganti sandi pengguna setelah lolos kebijakan sandi, lalu
// mencabut seluruh sesi aktifnya supaya token lama tidak bisa dipakai lagi.
func (s *Service) ResetSandi(ctx context.Context, id uuid.UUID, sandiBaru string) error {
	if err := util.ValidasiSandi(sandiBaru); err != nil {
		return err
	}

	hash, err := auth.Hash(sandiBaru)
	if err != nil {
		return err
	}
	if err := s.repo.SetSandi(ctx, id, hash); err != nil {
		return err
	}

	if s.sesi != nil {
		if err := s.sesi.LogoutSemua(ctx, id); err != nil {
			log.Warn().Err(err).Str("pengguna", id.String()).Msg("gagal mencabut sesi setelah reset sandi")
		}
	}
	return nil
}
