package storage

import "context"

// Berkas mendeskripsikan artefak yang tersimpan.
type Berkas struct {
	// Ref adalah path publik yang disimpan di database dan dilayani statis,
	// mis. /uploads/foto_kegiatan/1700000000000-rapat.jpg.
	Ref string
	// Path adalah lokasi fisik berkas di disk.
	Path string
}

// Penyimpan mendefinisikan perilaku dasar penyimpanan berkas unggahan.
type Penyimpan interface {
	Simpan(ctx context.Context, folder, namaAsli string, data []byte) (*Berkas, error)
	Hapus(ctx context.Context, ref string) error
}
