package laporan

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

// Dua submit serentak bisa sama-sama lolos cek COUNT; yang kalah commit
// ditolak constraint EXCLUDE dan harus tampil sebagai bentrok jadwal, bukan
// error server.
func TestTerjemahkanBentrokExclusion(t *testing.T) {
	err := fmt.Errorf("insert laporan: %w", &pgconn.PgError{
		Code:           "23P01",
		ConstraintName: "laporan_tanpa_tumpang_tindih",
	})

	assert.ErrorIs(t, terjemahkanBentrok(err), ErrJadwalBentrok)
}

func TestTerjemahkanBentrokMeneruskanErrorLain(t *testing.T) {
	unik := &pgconn.PgError{Code: "23505"}
	assert.Equal(t, error(unik), terjemahkanBentrok(unik))

	lain := errors.New("koneksi putus")
	assert.Equal(t, lain, terjemahkanBentrok(lain))
}
