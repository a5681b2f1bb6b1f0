package pengguna

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silahar3272/silahar/internal/auth"
	"github.com/silahar3272/silahar/internal/repo"
	"github.com/silahar3272/silahar/internal/storage"
	"github.com/silahar3272/silahar/internal/util"
)

type stubPenggunaRepo struct {
	tambahArg *TambahParams
	tambahErr error
	pengguna  repo.Pengguna
	sandiHash string
	dihapus   []uuid.UUID
}

func (s *stubPenggunaRepo) Tambah(_ context.Context, arg TambahParams) (repo.Pengguna, error) {
	s.tambahArg = &arg
	if s.tambahErr != nil {
		return repo.Pengguna{}, s.tambahErr
	}
	return repo.Pengguna{ID: uuid.New(), NamaLengkap: arg.NamaLengkap, Username: arg.Username, Role: arg.Role, Tandatangan: arg.Tandatangan}, nil
}

func (s *stubPenggunaRepo) List(context.Context) ([]repo.Pengguna, error) {
	return []repo.Pengguna{s.pengguna}, nil
}

func (s *stubPenggunaRepo) Get(context.Context, uuid.UUID) (repo.Pengguna, error) {
	return s.pengguna, nil
}

func (s *stubPenggunaRepo) Jumlah(context.Context) (int64, error) { return 7, nil }

func (s *stubPenggunaRepo) Edit(_ context.Context, _ uuid.UUID, arg EditParams) (repo.Pengguna, error) {
	p := s.pengguna
	if arg.NamaLengkap != nil {
		p.NamaLengkap = *arg.NamaLengkap
	}
	if arg.Email != nil {
		p.Email = *arg.Email
	}
	return p, nil
}

func (s *stubPenggunaRepo) Hapus(_ context.Context, id uuid.UUID) (repo.Pengguna, error) {
	s.dihapus = append(s.dihapus, id)
	return s.pengguna, nil
}

func (s *stubPenggunaRepo) SetSandi(_ context.Context, _ uuid.UUID, hash string) error {
	s.sandiHash = hash
	return nil
}

type rekamPenyimpan struct {
	disimpan int
	dihapus  []string
}

func (r *rekamPenyimpan) Simpan(_ context.Context, folder, nama string, _ []byte) (*storage.Berkas, error) {
	r.disimpan++
	return &storage.Berkas{Ref: "/uploads/" + folder + "/" + nama}, nil
}

func (r *rekamPenyimpan) Hapus(_ context.Context, ref string) error {
	r.dihapus = append(r.dihapus, ref)
	return nil
}

func TestDaftarMenolakSandiLemah(t *testing.T) {
	repoStub := &stubPenggunaRepo{}
	svc := NewService(repoStub, &rekamPenyimpan{}, nil)

	_, err := svc.Daftar(context.Background(), DaftarParams{
		NamaLengkap: "Budi Santoso",
		Nip:         "111",
		Email:       "budi@contoh.go.id",
		Username:    "budi",
		Sandi:       "lemah",
	})

	var ve *util.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Nil(t, repoStub.tambahArg)
}

func TestDaftarMenormalkanDanMenghash(t *testing.T) {
	repoStub := &stubPenggunaRepo{}
	svc := NewService(repoStub, &rekamPenyimpan{}, nil)

	p, err := svc.Daftar(context.Background(), DaftarParams{
		NamaLengkap: "  Budi Santoso  ",
		Nip:         "199001012015031001",
		Email:       "Budi@Contoh.GO.ID",
		Username:    "budi",
		Sandi:       "Rahasia1!",
	})
	require.NoError(t, err)

	require.NotNil(t, repoStub.tambahArg)
	assert.Equal(t, "Budi Santoso", repoStub.tambahArg.NamaLengkap)
	assert.Equal(t, "budi@contoh.go.id", repoStub.tambahArg.Email)
	assert.Equal(t, "pengguna", repoStub.tambahArg.Role, "role kosong jatuh ke pengguna")
	assert.Equal(t, "pengguna", p.Role)

	ok, err := auth.Verify("Rahasia1!", repoStub.tambahArg.SandiHash)
	require.NoError(t, err)
	assert.True(t, ok, "sandi tersimpan sebagai hash argon2id yang valid")
}

func TestDaftarMembuangTandaTanganSaatInsertGagal(t *testing.T) {
	repoStub := &stubPenggunaRepo{tambahErr: ErrDuplikat}
	penyimpan := &rekamPenyimpan{}
	svc := NewService(repoStub, penyimpan, nil)

	// Header PNG saja sudah cukup untuk lolos sniffing CekGambar.
	ttd := []byte("\x89PNG\r\n\x1a\n")

	_, err := svc.Daftar(context.Background(), DaftarParams{
		NamaLengkap:     "Budi Santoso",
		Nip:             "111",
		Email:           "budi@contoh.go.id",
		Username:        "budi",
		Sandi:           "Rahasia1!",
		TandatanganNama: "ttd.png",
		Tandatangan:     ttd,
	})

	assert.ErrorIs(t, err, ErrDuplikat)
	assert.Equal(t, 1, penyimpan.disimpan)
	assert.Len(t, penyimpan.dihapus, 1, "tanda tangan yatim harus dibuang")
}

func TestHapusMembersihkanTandaTangan(t *testing.T) {
	ttd := "/uploads/tandatangan/budi.png"
	repoStub := &stubPenggunaRepo{pengguna: repo.Pengguna{ID: uuid.New(), Tandatangan: &ttd}}
	penyimpan := &rekamPenyimpan{}
	svc := NewService(repoStub, penyimpan, nil)

	require.NoError(t, svc.Hapus(context.Background(), repoStub.pengguna.ID))
	assert.Equal(t, []string{ttd}, penyimpan.dihapus)
}

func TestResetSandi(t *testing.T) {
	repoStub := &stubPenggunaRepo{}
	svc := NewService(repoStub, &rekamPenyimpan{}, nil)

	require.Error(t, svc.ResetSandi(context.Background(), uuid.New(), "pendek"))
	assert.Empty(t, repoStub.sandiHash)

	require.NoError(t, svc.ResetSandi(context.Background(), uuid.New(), "SandiBaru9!"))
	ok, err := auth.Verify("SandiBaru9!", repoStub.sandiHash)
	require.NoError(t, err)
	assert.True(t, ok)
}
