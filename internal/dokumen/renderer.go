package dokumen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog/log"
)

// BarisLaporan satu baris kegiatan di tabel dokumen.
type BarisLaporan struct {
	Tanggal    time.Time
	JamMulai   string
	JamSelesai string
	Deskripsi  string
	FotoRef    *string
}

// KelompokLaporan satu bagian dokumen: identitas pengguna, tanda tangan, dan
// baris kegiatannya.
type KelompokLaporan struct {
	NamaLengkap string
	Nip         string
	Tandatangan *string
	Baris       []BarisLaporan
}

// Tata letak tabel: total 180mm, pas dengan A4 bermargin 15mm.
const (
	lebarNo         = 10.0
	lebarWaktu      = 35.0
	lebarDeskripsi  = 75.0
	lebarFoto       = 60.0
	tinggiBaris     = 36.0
	tinggiFoto      = 30.0
	barisPerHalaman = 6
	sisiFotoPiksel  = 640
)

// Renderer menggambar dokumen laporan kegiatan harian ke PDF. logoRef boleh
// kosong; logo yang gagal dimuat dilewati tanpa menggagalkan dokumen.
type Renderer struct {
	gambar  PengambilGambar
	logoRef string
}

func NewRenderer(gambar PengambilGambar, logoRef string) *Renderer {
	return &Renderer{gambar: gambar, logoRef: logoRef}
}

// RenderHarian menulis dokumen laporan satu pengguna untuk satu tanggal.
func (r *Renderer) RenderHarian(ctx context.Context, k *KelompokLaporan, tanggal time.Time, w io.Writer) error {
	pdf := halamanBaru()
	r.bagianKelompok(ctx, pdf, k, "Tanggal", FormatTanggalIndo(tanggal))
	r.blokTandaTangan(ctx, pdf, k, tanggal)
	return pdf.Output(w)
}

// RenderRentang menulis dokumen rentang tanggal. Setiap pengguna mendapat
// bagiannya sendiri lengkap dengan blok tanda tangan, berurutan sesuai input.
func (r *Renderer) RenderRentang(ctx context.Context, kelompok []*KelompokLaporan, awal, akhir time.Time, w io.Writer) error {
	pdf := halamanBaru()
	periode := FormatTanggalIndo(awal) + " s.d. " + FormatTanggalIndo(akhir)
	for _, k := range kelompok {
		r.bagianKelompok(ctx, pdf, k, "Periode", periode)
		r.blokTandaTangan(ctx, pdf, k, akhir)
	}
	return pdf.Output(w)
}

func halamanBaru() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, 15)
	return pdf
}

func (r *Renderer) bagianKelompok(ctx context.Context, pdf *fpdf.Fpdf, k *KelompokLaporan, labelTanggal, nilaiTanggal string) {
	pdf.AddPage()

	r.gambarLogo(ctx, pdf)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, "LAPORAN KEGIATAN HARIAN", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	barisIdentitas(pdf, "Nama", k.NamaLengkap)
	barisIdentitas(pdf, "NIP", k.Nip)
	barisIdentitas(pdf, labelTanggal, nilaiTanggal)
	pdf.Ln(3)

	tajukTabel(pdf)
	for i, b := range k.Baris {
		if i > 0 && i%barisPerHalaman == 0 {
			pdf.AddPage()
			tajukTabel(pdf)
		}
		r.barisTabel(ctx, pdf, i+1, b)
	}
}

func (r *Renderer) gambarLogo(ctx context.Context, pdf *fpdf.Fpdf) {
	if r.logoRef == "" {
		return
	}

	data, err := r.gambar.Ambil(ctx, r.logoRef)
	if err != nil {
		log.Warn().Err(err).Str("logo", r.logoRef).Msg("gagal memuat logo instansi")
		return
	}

	opsi := fpdf.ImageOptions{ImageType: tipeGambarPDF(data)}
	pdf.RegisterImageOptionsReader(r.logoRef, opsi, bytes.NewReader(data))
	pdf.ImageOptions(r.logoRef, 15, 12, 16, 16, false, opsi, 0, "")
}

func barisIdentitas(pdf *fpdf.Fpdf, label, nilai string) {
	pdf.CellFormat(30, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(5, 6, ":", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, nilai, "", 1, "L", false, 0, "")
}

func tajukTabel(pdf *fpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(lebarNo, 8, "No", "1", 0, "C", true, 0, "")
	pdf.CellFormat(lebarWaktu, 8, "Waktu", "1", 0, "C", true, 0, "")
	pdf.CellFormat(lebarDeskripsi, 8, "Deskripsi Kegiatan", "1", 0, "C", true, 0, "")
	pdf.CellFormat(lebarFoto, 8, "Foto Kegiatan", "1", 1, "C", true, 0, "")
}

func (r *Renderer) barisTabel(ctx context.Context, pdf *fpdf.Fpdf, no int, b BarisLaporan) {
	x, y := pdf.GetX(), pdf.GetY()

	pdf.Rect(x, y, lebarNo, tinggiBaris, "D")
	pdf.Rect(x+lebarNo, y, lebarWaktu, tinggiBaris, "D")
	pdf.Rect(x+lebarNo+lebarWaktu, y, lebarDeskripsi, tinggiBaris, "D")
	pdf.Rect(x+lebarNo+lebarWaktu+lebarDeskripsi, y, lebarFoto, tinggiBaris, "D")

	pdf.SetFont("Arial", "", 9)
	pdf.SetXY(x, y+2)
	pdf.CellFormat(lebarNo, 5, strconv.Itoa(no), "", 0, "C", false, 0, "")

	waktu := b.JamMulai + " - " + b.JamSelesai
	if !b.Tanggal.IsZero() {
		waktu = b.Tanggal.Format("02-01-2006") + "\n" + waktu
	}
	pdf.SetXY(x+lebarNo, y+2)
	pdf.MultiCell(lebarWaktu, 5, waktu, "", "C", false)

	pdf.SetXY(x+lebarNo+lebarWaktu+1, y+2)
	pdf.MultiCell(lebarDeskripsi-2, 4, b.Deskripsi, "", "L", false)

	r.gambarFoto(ctx, pdf, b.FotoRef, x+lebarNo+lebarWaktu+lebarDeskripsi, y)

	pdf.SetXY(x, y+tinggiBaris)
}

func (r *Renderer) gambarFoto(ctx context.Context, pdf *fpdf.Fpdf, ref *string, x, y float64) {
	if ref == nil || *ref == "" {
		fotoKosong(pdf, x, y)
		return
	}

	data, err := r.gambar.Ambil(ctx, *ref)
	var lebarPx, tinggiPx int
	if err == nil {
		data, lebarPx, tinggiPx, err = susutkanFoto(data, sisiFotoPiksel)
	}
	if err != nil {
		log.Warn().Err(err).Str("foto", *ref).Msg("gagal memuat foto kegiatan")
		fotoKosong(pdf, x, y)
		return
	}

	// Pas-kan gambar ke kotak foto tanpa mengubah rasio.
	kotakLebar, kotakTinggi := lebarFoto-4, tinggiFoto
	rasio := float64(lebarPx) / float64(tinggiPx)
	w, h := kotakLebar, kotakLebar/rasio
	if h > kotakTinggi {
		h = kotakTinggi
		w = kotakTinggi * rasio
	}

	opsi := fpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader(*ref, opsi, bytes.NewReader(data))
	pdf.ImageOptions(*ref, x+(lebarFoto-w)/2, y+(tinggiBaris-h)/2, w, h, false, opsi, 0, "")
}

func fotoKosong(pdf *fpdf.Fpdf, x, y float64) {
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(x, y+tinggiBaris/2-3)
	pdf.CellFormat(lebarFoto, 5, "Foto tidak tersedia", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func (r *Renderer) blokTandaTangan(ctx context.Context, pdf *fpdf.Fpdf, k *KelompokLaporan, tanggal time.Time) {
	_, tinggiHalaman := pdf.GetPageSize()
	if pdf.GetY()+50 > tinggiHalaman-15 {
		pdf.AddPage()
	}
	pdf.Ln(6)

	x := 210 - 15 - 70.0
	pdf.SetFont("Arial", "", 10)
	pdf.SetX(x)
	pdf.CellFormat(70, 5, FormatTanggalIndo(tanggal), "", 1, "C", false, 0, "")
	pdf.SetX(x)
	pdf.CellFormat(70, 5, "Pelapor,", "", 1, "C", false, 0, "")

	if k.Tandatangan != nil && *k.Tandatangan != "" {
		if data, err := r.gambar.Ambil(ctx, *k.Tandatangan); err == nil {
			opsi := fpdf.ImageOptions{ImageType: tipeGambarPDF(data)}
			nama := "ttd-" + k.Nip
			pdf.RegisterImageOptionsReader(nama, opsi, bytes.NewReader(data))
			pdf.ImageOptions(nama, x+20, pdf.GetY()+2, 30, 18, false, opsi, 0, "")
		} else {
			log.Warn().Err(err).Str("tandatangan", *k.Tandatangan).Msg("gagal memuat tanda tangan")
		}
	}
	pdf.Ln(22)

	pdf.SetFont("Arial", "BU", 10)
	pdf.SetX(x)
	pdf.CellFormat(70, 5, k.NamaLengkap, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetX(x)
	pdf.CellFormat(70, 5, "NIP. "+k.Nip, "", 1, "C", false, 0, "")
}

var namaBulan = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// FormatTanggalIndo memformat tanggal ke gaya Indonesia, mis. "17 Agustus 2026".
func FormatTanggalIndo(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), namaBulan[t.Month()-1], t.Year())
}
