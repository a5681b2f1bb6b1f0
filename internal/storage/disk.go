package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/silahar3272/silahar/internal/util"
)

// DiskPenyimpan menulis berkas ke direktori unggahan lokal yang dilayani statis
// melalui prefix /uploads.
type DiskPenyimpan struct {
	root   string
	prefix string
}

// NewDiskPenyimpan membuat penyimpan di atas direktori root unggahan.
func NewDiskPenyimpan(root string) (*DiskPenyimpan, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("storage: direktori unggahan wajib diisi")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &DiskPenyimpan{root: root, prefix: "/uploads"}, nil
}

// Simpan menulis data dengan nama unik (timestamp + nama asli tersanitasi) dan
// mengembalikan ref publiknya.
func (d *DiskPenyimpan) Simpan(ctx context.Context, folder, namaAsli string, data []byte) (*Berkas, error) {
	if len(data) == 0 {
		return nil, errors.New("storage: berkas kosong")
	}

	dir := filepath.Join(d.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	nama := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitasiNama(namaAsli))
	path := filepath.Join(dir, nama)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, err
	}

	ref := d.prefix + "/" + folder + "/" + nama
	return &Berkas{Ref: ref, Path: path}, nil
}

// Hapus membuang berkas berdasarkan ref publiknya.
func (d *DiskPenyimpan) Hapus(ctx context.Context, ref string) error {
	rel := strings.TrimPrefix(ref, d.prefix+"/")
	if rel == ref || rel == "" {
		return fmt.Errorf("storage: ref tidak dikenal: %s", ref)
	}

	// filepath.Clean mencegah ref menembus keluar direktori unggahan.
	rel = filepath.Clean(rel)
	if strings.HasPrefix(rel, "..") {
		return fmt.Errorf("storage: ref tidak valid: %s", ref)
	}

	return os.Remove(filepath.Join(d.root, rel))
}

// CekGambar menolak berkas yang bukan gambar (berdasarkan ekstensi dan isi).
func CekGambar(namaAsli string, data []byte) error {
	switch strings.ToLower(filepath.Ext(namaAsli)) {
	case ".jpg", ".jpeg", ".png", ".gif":
	default:
		return &util.ValidationError{Pesan: "hanya file gambar yang diizinkan"}
	}

	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return &util.ValidationError{Pesan: "hanya file gambar yang diizinkan"}
	}
	return nil
}

func sanitasiNama(nama string) string {
	nama = filepath.Base(strings.TrimSpace(nama))
	if nama == "" || nama == "." || nama == string(filepath.Separator) {
		return "berkas"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, nama)
}
