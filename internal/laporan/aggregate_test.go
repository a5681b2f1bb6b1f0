package laporan

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKelompokkanPerPengguna(t *testing.T) {
	budi := uuid.New()
	sari := uuid.New()
	ttd := "/uploads/tandatangan/budi.png"

	baris := []LaporanRender{
		{Laporan: Laporan{PenggunaID: budi, NamaLengkap: "Budi Santoso", Nip: "111", Deskripsi: "apel pagi"}, Tandatangan: &ttd},
		{Laporan: Laporan{PenggunaID: sari, NamaLengkap: "Sari Dewi", Nip: "222", Deskripsi: "rapat"}},
		{Laporan: Laporan{PenggunaID: budi, NamaLengkap: "Budi Santoso", Nip: "111", Deskripsi: "arsip"}, Tandatangan: &ttd},
	}

	hasil := KelompokkanPerPengguna(baris)
	require.Len(t, hasil, 2)

	// Urutan kelompok mengikuti kemunculan pertama di input.
	assert.Equal(t, budi, hasil[0].PenggunaID)
	assert.Equal(t, sari, hasil[1].PenggunaID)

	require.Len(t, hasil[0].Laporan, 2)
	assert.Equal(t, "apel pagi", hasil[0].Laporan[0].Deskripsi)
	assert.Equal(t, "arsip", hasil[0].Laporan[1].Deskripsi)
	require.NotNil(t, hasil[0].Tandatangan)
	assert.Equal(t, ttd, *hasil[0].Tandatangan)

	require.Len(t, hasil[1].Laporan, 1)
	assert.Nil(t, hasil[1].Tandatangan)
}

func TestKelompokkanPerPenggunaKosong(t *testing.T) {
	assert.Empty(t, KelompokkanPerPengguna(nil))
}
