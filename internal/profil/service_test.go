package profil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silahar3272/silahar/internal/repo"
	"github.com/silahar3272/silahar/internal/storage"
	"github.com/silahar3272/silahar/internal/util"
)

type stubProfilRepo struct {
	tersimpan  *Profil
	insertArgs []*string
	updateArgs []*string
}

func (s *stubProfilRepo) GetPertama(context.Context) (Profil, error) {
	if s.tersimpan == nil {
		return Profil{}, repo.ErrNotFound
	}
	return *s.tersimpan, nil
}

func (s *stubProfilRepo) Get(context.Context, uuid.UUID) (Profil, error) {
	return s.GetPertama(context.Background())
}

func (s *stubProfilRepo) List(context.Context) ([]Profil, error) { return nil, nil }

func (s *stubProfilRepo) Insert(_ context.Context, visiMisi, berakhlak *string) (Profil, error) {
	s.insertArgs = []*string{visiMisi, berakhlak}
	return Profil{ID: uuid.New(), VisiMisiImage: visiMisi, BerakhlakImage: berakhlak}, nil
}

func (s *stubProfilRepo) Update(_ context.Context, id uuid.UUID, visiMisi, berakhlak *string) (Profil, error) {
	s.updateArgs = []*string{visiMisi, berakhlak}
	return Profil{ID: id}, nil
}

func (s *stubProfilRepo) Hapus(context.Context, uuid.UUID) (Profil, error) {
	if s.tersimpan == nil {
		return Profil{}, repo.ErrNotFound
	}
	return *s.tersimpan, nil
}

type rekamPenyimpan struct {
	dihapus []string
}

func (r *rekamPenyimpan) Simpan(_ context.Context, folder, nama string, _ []byte) (*storage.Berkas, error) {
	return &storage.Berkas{Ref: "/uploads/" + folder + "/" + nama}, nil
}

func (r *rekamPenyimpan) Hapus(_ context.Context, ref string) error {
	r.dihapus = append(r.dihapus, ref)
	return nil
}

var pngUji = []byte("\x89PNG\r\n\x1a\n")

func TestSimpanTanpaGambar(t *testing.T) {
	svc := NewService(&stubProfilRepo{}, &rekamPenyimpan{})

	_, err := svc.Simpan(context.Background(), GambarParams{})

	var ve *util.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestSimpanMembuatProfilBaru(t *testing.T) {
	repoStub := &stubProfilRepo{}
	svc := NewService(repoStub, &rekamPenyimpan{})

	p, err := svc.Simpan(context.Background(), GambarParams{
		VisiMisiNama: "visi.png",
		VisiMisi:     pngUji,
	})
	require.NoError(t, err)

	require.NotNil(t, p.VisiMisiImage)
	assert.Contains(t, *p.VisiMisiImage, "/uploads/visi_misi/")
	require.Len(t, repoStub.insertArgs, 2)
	assert.Nil(t, repoStub.insertArgs[1], "berakhlak tidak dikirim")
}

func TestSimpanMenggantiProfilLama(t *testing.T) {
	lamaVisi := "/uploads/visi_misi/lama.png"
	repoStub := &stubProfilRepo{tersimpan: &Profil{ID: uuid.New(), VisiMisiImage: &lamaVisi}}
	penyimpan := &rekamPenyimpan{}
	svc := NewService(repoStub, penyimpan)

	_, err := svc.Simpan(context.Background(), GambarParams{
		VisiMisiNama: "baru.png",
		VisiMisi:     pngUji,
	})
	require.NoError(t, err)

	require.Len(t, repoStub.updateArgs, 2)
	assert.Equal(t, []string{lamaVisi}, penyimpan.dihapus, "gambar lama dibuang setelah diganti")
}

func TestHapusMembersihkanGambar(t *testing.T) {
	visi := "/uploads/visi_misi/a.png"
	akhlak := "/uploads/berakhlak/b.png"
	repoStub := &stubProfilRepo{tersimpan: &Profil{ID: uuid.New(), VisiMisiImage: &visi, BerakhlakImage: &akhlak}}
	penyimpan := &rekamPenyimpan{}
	svc := NewService(repoStub, penyimpan)

	require.NoError(t, svc.Hapus(context.Background(), repoStub.tersimpan.ID))
	assert.ElementsMatch(t, []string{visi, akhlak}, penyimpan.dihapus)
}
