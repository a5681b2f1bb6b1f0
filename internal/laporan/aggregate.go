package laporan

import "github.com/google/uuid"

// KelompokLaporan adalah kumpulan laporan satu pengguna, bahan satu bagian
// dokumen PDF.
type KelompokLaporan struct {
	PenggunaID  uuid.UUID
	NamaLengkap string
	Nip         string
	Tandatangan *string
	Laporan     []LaporanRender
}

// KelompokkanPerPengguna membagi baris siap-render menjadi kelompok per
// pengguna. Urutan kelompok mengikuti kemunculan pertama pengguna dalam input;
// urutan baris di dalam kelompok mengikuti urutan input.
func KelompokkanPerPengguna(baris []LaporanRender) []*KelompokLaporan {
	indeks := make(map[uuid.UUID]*KelompokLaporan)
	var hasil []*KelompokLaporan

	for _, b := range baris {
		k, ok := indeks[b.PenggunaID]
		if !ok {
			k = &KelompokLaporan{
				PenggunaID:  b.PenggunaID,
				NamaLengkap: b.NamaLengkap,
				Nip:         b.Nip,
				Tandatangan: b.Tandatangan,
			}
			indeks[b.PenggunaID] = k
			hasil = append(hasil, k)
		}
		k.Laporan = append(k.Laporan, b)
	}
	return hasil
}
