package dokumen

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetcherStatis struct {
	data []byte
	err  error
}

func (f fetcherStatis) Ambil(context.Context, string) ([]byte, error) {
	return f.data, f.err
}

func fotoUji(t *testing.T, lebar, tinggi int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, lebar, tinggi))
	for x := 0; x < lebar; x++ {
		for y := 0; y < tinggi; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 90, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func kelompokUji(jumlahBaris int, fotoRef *string) *KelompokLaporan {
	k := &KelompokLaporan{NamaLengkap: "Budi Santoso", Nip: "199001012015031001"}
	for i := 0; i < jumlahBaris; i++ {
		k.Baris = append(k.Baris, BarisLaporan{
			Tanggal:    time.Date(2026, 8, 1+i, 0, 0, 0, 0, time.UTC),
			JamMulai:   "08:00",
			JamSelesai: "09:00",
			Deskripsi:  "kegiatan rutin",
			FotoRef:    fotoRef,
		})
	}
	return k
}

func TestRenderHarianMenghasilkanPDF(t *testing.T) {
	ref := "/uploads/foto_kegiatan/apel.jpg"
	r := NewRenderer(fetcherStatis{data: fotoUji(t, 320, 240)}, "")

	var buf bytes.Buffer
	err := r.RenderHarian(context.Background(), kelompokUji(2, &ref), time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), &buf)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
}

func TestRenderHarianFotoGagalTetapJalan(t *testing.T) {
	ref := "/uploads/foto_kegiatan/hilang.jpg"
	r := NewRenderer(fetcherStatis{err: errors.New("404")}, "")

	var buf bytes.Buffer
	err := r.RenderHarian(context.Background(), kelompokUji(1, &ref), time.Now(), &buf)

	require.NoError(t, err, "foto gagal dimuat tidak boleh menggagalkan dokumen")
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
}

func TestRenderHarianLebihDariSatuHalaman(t *testing.T) {
	r := NewRenderer(fetcherStatis{err: errors.New("tanpa foto")}, "")

	var pendek, panjang bytes.Buffer
	require.NoError(t, r.RenderHarian(context.Background(), kelompokUji(2, nil), time.Now(), &pendek))
	require.NoError(t, r.RenderHarian(context.Background(), kelompokUji(barisPerHalaman+3, nil), time.Now(), &panjang))

	// Dokumen lebih dari enam baris harus pecah ke halaman tambahan.
	assert.Equal(t, 1, strings.Count(pendek.String(), "/Type /Page\n"))
	assert.Greater(t, strings.Count(panjang.String(), "/Type /Page\n"), 1)
}

func TestRenderRentangSatuBagianPerPengguna(t *testing.T) {
	r := NewRenderer(fetcherStatis{err: errors.New("tanpa foto")}, "")
	kelompok := []*KelompokLaporan{
		kelompokUji(1, nil),
		{NamaLengkap: "Sari Dewi", Nip: "222", Baris: []BarisLaporan{{JamMulai: "09:00", JamSelesai: "10:00", Deskripsi: "rapat"}}},
	}

	var buf bytes.Buffer
	err := r.RenderRentang(context.Background(), kelompok,
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), &buf)

	require.NoError(t, err)
	// Setiap pengguna mulai di halaman baru.
	assert.GreaterOrEqual(t, strings.Count(buf.String(), "/Type /Page\n"), 2)
}

func TestFormatTanggalIndo(t *testing.T) {
	assert.Equal(t, "17 Agustus 2026", FormatTanggalIndo(time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "1 Januari 2025", FormatTanggalIndo(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}
