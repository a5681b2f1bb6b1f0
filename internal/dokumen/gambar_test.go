package dokumen

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSusutkanFotoMengecilkanGambarBesar(t *testing.T) {
	data := fotoUji(t, 1600, 900)

	hasil, lebar, tinggi, err := susutkanFoto(data, 640)
	require.NoError(t, err)

	assert.Equal(t, 640, lebar)
	assert.Equal(t, 360, tinggi)
	assert.Less(t, len(hasil), len(data))

	img, format, err := image.Decode(bytes.NewReader(hasil))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 640, img.Bounds().Dx())
}

func TestSusutkanFotoMembiarkanGambarKecil(t *testing.T) {
	data := fotoUji(t, 300, 200)

	_, lebar, tinggi, err := susutkanFoto(data, 640)
	require.NoError(t, err)
	assert.Equal(t, 300, lebar)
	assert.Equal(t, 200, tinggi)
}

func TestSusutkanFotoMenolakBukanGambar(t *testing.T) {
	_, _, _, err := susutkanFoto([]byte("bukan gambar"), 640)
	assert.Error(t, err)
}

func TestTipeGambarPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	assert.Equal(t, "PNG", tipeGambarPDF(buf.Bytes()))
	assert.Equal(t, "JPG", tipeGambarPDF(fotoUji(t, 2, 2)))
}

func TestHTTPPengambilResolusiRef(t *testing.T) {
	var diminta string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		diminta = r.URL.Path
		w.Write([]byte("isi"))
	}))
	defer srv.Close()

	p := NewHTTPPengambil(srv.URL + "/")

	data, err := p.Ambil(context.Background(), "/uploads/foto_kegiatan/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("isi"), data)
	assert.Equal(t, "/uploads/foto_kegiatan/a.jpg", diminta)

	// URL absolut dipakai apa adanya.
	_, err = p.Ambil(context.Background(), srv.URL+"/uploads/b.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/b.jpg", diminta)
}

func TestHTTPPengambilStatusBukan200(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	p := NewHTTPPengambil(srv.URL)
	_, err := p.Ambil(context.Background(), "/uploads/hilang.jpg")
	assert.Error(t, err)
}
