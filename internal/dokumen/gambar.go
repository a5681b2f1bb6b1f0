package dokumen

import (
	"bytes"
	"image"
	"image/jpeg"
	"net/http"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

// susutkanFoto menurunkan resolusi foto sebelum ditanam ke PDF supaya dokumen
// rentang sebulan tidak membengkak. Hasil selalu JPEG beserta dimensinya.
func susutkanFoto(data []byte, maksSisi int) ([]byte, int, int, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, err
	}

	b := img.Bounds()
	lebar, tinggi := b.Dx(), b.Dy()

	if lebar > maksSisi || tinggi > maksSisi {
		terpanjang := lebar
		if tinggi > terpanjang {
			terpanjang = tinggi
		}
		skala := float64(maksSisi) / float64(terpanjang)
		lebar = int(float64(lebar) * skala)
		tinggi = int(float64(tinggi) * skala)

		dst := image.NewRGBA(image.Rect(0, 0, lebar, tinggi))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return nil, 0, 0, err
	}
	return buf.Bytes(), lebar, tinggi, nil
}

// tipeGambarPDF memetakan isi berkas ke tipe gambar yang dikenal fpdf.
func tipeGambarPDF(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	default:
		return "JPG"
	}
}
