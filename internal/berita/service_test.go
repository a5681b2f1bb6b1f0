package berita

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silahar3272/silahar/internal/storage"
	"github.com/silahar3272/silahar/internal/util"
)

type stubBeritaRepo struct {
	tambahArg     *TambahParams
	tambahErr     error
	ubahArg       *UbahParams
	tersimpan     Berita
	notifikasi    []string
	notifikasiErr error
}

func (s *stubBeritaRepo) Tambah(_ context.Context, arg TambahParams) (Berita, error) {
	s.tambahArg = &arg
	if s.tambahErr != nil {
		return Berita{}, s.tambahErr
	}
	return Berita{ID: uuid.New(), Title: arg.Title, Category: arg.Category, ImageURL: arg.ImageURL}, nil
}

func (s *stubBeritaRepo) List(context.Context) ([]Berita, error) { return nil, nil }

func (s *stubBeritaRepo) Get(context.Context, uuid.UUID) (Berita, error) {
	return s.tersimpan, nil
}

func (s *stubBeritaRepo) Ubah(_ context.Context, _ uuid.UUID, arg UbahParams) (Berita, error) {
	s.ubahArg = &arg
	return s.tersimpan, nil
}

func (s *stubBeritaRepo) Hapus(context.Context, uuid.UUID) (Berita, error) {
	return s.tersimpan, nil
}

func (s *stubBeritaRepo) SebarNotifikasi(_ context.Context, pesan string) (int64, error) {
	s.notifikasi = append(s.notifikasi, pesan)
	return 3, s.notifikasiErr
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

func TestBuatMenyebarNotifikasi(t *testing.T) {
	repoStub := &stubBeritaRepo{}
	svc := NewService(repoStub, &rekamPenyimpan{})

	b, err := svc.Buat(context.Background(), BuatParams{
		Category: "pengumuman",
		Title:    "Apel Gabungan",
		Date:     time.Now(),
		Time:     "08:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "Apel Gabungan", b.Title)
	require.Len(t, repoStub.notifikasi, 1)
	assert.Equal(t, "Berita baru: Apel Gabungan", repoStub.notifikasi[0])
}

func TestBuatNotifikasiGagalTidakMembatalkan(t *testing.T) {
	repoStub := &stubBeritaRepo{notifikasiErr: errors.New("tabel penuh")}
	svc := NewService(repoStub, &rekamPenyimpan{})

	_, err := svc.Buat(context.Background(), BuatParams{Category: "pengumuman", Title: "Rapat"})
	assert.NoError(t, err, "kegagalan notifikasi hanya dicatat")
}

func TestBuatTitleWajib(t *testing.T) {
	svc := NewService(&stubBeritaRepo{}, &rekamPenyimpan{})

	_, err := svc.Buat(context.Background(), BuatParams{Category: "pengumuman"})

	var ve *util.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestUbahTanpaPerubahan(t *testing.T) {
	svc := NewService(&stubBeritaRepo{}, &rekamPenyimpan{})

	_, err := svc.Ubah(context.Background(), uuid.New(), UbahArtikelParams{})

	var ve *util.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "tidak ada data yang diubah", ve.Pesan)
}

func TestUbahGambarMenggantiYangLama(t *testing.T) {
	lama := "/uploads/fotoberita/lama.jpg"
	repoStub := &stubBeritaRepo{tersimpan: Berita{ID: uuid.New(), ImageURL: &lama}}
	penyimpan := &rekamPenyimpan{}
	svc := NewService(repoStub, penyimpan)

	_, err := svc.Ubah(context.Background(), repoStub.tersimpan.ID, UbahArtikelParams{
		GambarNama: "baru.png",
		Gambar:     []byte("\x89PNG\r\n\x1a\n"),
	})
	require.NoError(t, err)

	require.NotNil(t, repoStub.ubahArg)
	require.NotNil(t, repoStub.ubahArg.ImageURL)
	assert.Contains(t, *repoStub.ubahArg.ImageURL, "/uploads/fotoberita/")
	assert.Equal(t, []string{lama}, penyimpan.dihapus, "gambar lama dibuang setelah update")
}

func TestHapusMembersihkanGambar(t *testing.T) {
	gambar := "/uploads/fotoberita/apel.jpg"
	repoStub := &stubBeritaRepo{tersimpan: Berita{ID: uuid.New(), ImageURL: &gambar}}
	penyimpan := &rekamPenyimpan{}
	svc := NewService(repoStub, penyimpan)

	require.NoError(t, svc.Hapus(context.Background(), repoStub.tersimpan.ID))
	assert.Equal(t, []string{gambar}, penyimpan.dihapus)
}
