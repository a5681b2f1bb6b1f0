package dokumen

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// PengelolaBerkas menulis PDF hasil render ke direktori publik sementara, lalu
// menjadwalkan penghapusannya beberapa detik setelah dikirim. Jeda memberi
// waktu bagi unduhan yang masih berjalan.
type PengelolaBerkas struct {
	dir   string
	tunda time.Duration
}

func NewPengelolaBerkas(dir string, tunda time.Duration) (*PengelolaBerkas, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &PengelolaBerkas{dir: dir, tunda: tunda}, nil
}

// Tulis membuat berkas di disk lalu memanggil tulis untuk mengisinya. Nama di
// disk diberi prefiks timestamp supaya dua request serentak dengan nama unduhan
// sama tidak saling menimpa. Bila pengisian gagal, berkas setengah jadi
// langsung dibuang dan error render dikembalikan apa adanya.
func (p *PengelolaBerkas) Tulis(nama string, tulis func(io.Writer) error) (string, error) {
	path := filepath.Join(p.dir, fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(nama)))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if err := tulis(f); err != nil {
		f.Close()
		if rmErr := os.Remove(path); rmErr != nil {
			log.Warn().Err(rmErr).Str("berkas", path).Msg("gagal membuang berkas setengah jadi")
		}
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// Kirim menstream berkas sebagai unduhan dan selalu menjadwalkan penghapusan,
// termasuk saat pengiriman terputus; kegagalan kirim hanya dicatat.
func (p *PengelolaBerkas) Kirim(w http.ResponseWriter, r *http.Request, path, nama string) {
	defer p.JadwalkanHapus(path)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(nama)))
	http.ServeFile(w, r, path)
}

// JadwalkanHapus membuang berkas setelah jeda, terlepas dari request yang
// memicunya. Kegagalan hapus dicatat saja; tidak ada yang bisa menindaklanjuti
// error tersebut dari sisi klien.
func (p *PengelolaBerkas) JadwalkanHapus(path string) {
	time.AfterFunc(p.tunda, func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("berkas", path).Msg("gagal menghapus berkas sementara")
		}
	})
}

// NamaBerkasAman membersihkan potongan nama berkas unduhan dari karakter yang
// bermasalah di header maupun sistem berkas.
func NamaBerkasAman(potongan string) string {
	return strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			return c
		case c == '-', c == '_', c == '.':
			return c
		case c == ' ':
			return '_'
		default:
			return -1
		}
	}, potongan)
}
