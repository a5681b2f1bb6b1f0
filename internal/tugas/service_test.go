package tugas

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silahar3272/silahar/internal/util"
)

type stubTugasRepo struct {
	buatArg   *BuatParams
	statusArg string
	statusErr error
}

func (s *stubTugasRepo) Buat(_ context.Context, arg BuatParams) (Tugas, error) {
	s.buatArg = &arg
	return Tugas{ID: uuid.New(), Judul: arg.Judul, Status: StatusBelumDikerjakan}, nil
}

func (s *stubTugasRepo) ListSemua(context.Context) ([]TugasDenganNama, error) { return nil, nil }

func (s *stubTugasRepo) Get(context.Context, uuid.UUID) (Tugas, error) { return Tugas{}, nil }

func (s *stubTugasRepo) Ubah(_ context.Context, _ uuid.UUID, arg UbahParams) (Tugas, error) {
	return Tugas{Judul: arg.Judul}, nil
}

func (s *stubTugasRepo) Hapus(context.Context, uuid.UUID) error { return nil }

func (s *stubTugasRepo) ListByPengguna(context.Context, uuid.UUID) ([]Tugas, error) {
	return nil, nil
}

func (s *stubTugasRepo) UbahStatus(_ context.Context, _, _ uuid.UUID, status string) (Tugas, error) {
	s.statusArg = status
	if s.statusErr != nil {
		return Tugas{}, s.statusErr
	}
	return Tugas{Status: status}, nil
}

func TestBuatTugasBaruBerstatusBelumDikerjakan(t *testing.T) {
	repoStub := &stubTugasRepo{}
	svc := NewService(repoStub)

	tugas, err := svc.Buat(context.Background(), BuatParams{
		PenggunaID:      uuid.New(),
		AdminID:         uuid.New(),
		Judul:           "Rekap arsip triwulan",
		TanggalDeadline: time.Now().AddDate(0, 0, 7),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusBelumDikerjakan, tugas.Status)
}

func TestBuatTugasJudulWajib(t *testing.T) {
	svc := NewService(&stubTugasRepo{})

	_, err := svc.Buat(context.Background(), BuatParams{TanggalDeadline: time.Now()})

	var ve *util.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestBuatTugasDeadlineWajib(t *testing.T) {
	svc := NewService(&stubTugasRepo{})

	_, err := svc.Buat(context.Background(), BuatParams{Judul: "Rekap"})

	var ve *util.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestUbahStatus(t *testing.T) {
	repoStub := &stubTugasRepo{}
	svc := NewService(repoStub)

	tugas, err := svc.UbahStatus(context.Background(), uuid.New(), uuid.New(), StatusSelesai)
	require.NoError(t, err)
	assert.Equal(t, StatusSelesai, tugas.Status)
}

func TestUbahStatusMenolakNilaiAsing(t *testing.T) {
	repoStub := &stubTugasRepo{}
	svc := NewService(repoStub)

	_, err := svc.UbahStatus(context.Background(), uuid.New(), uuid.New(), "ditunda")

	var ve *util.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, repoStub.statusArg, "repository tidak boleh tersentuh untuk status asing")
}

func TestUbahStatusBukanPemilik(t *testing.T) {
	repoStub := &stubTugasRepo{statusErr: ErrBukanPemilik}
	svc := NewService(repoStub)

	_, err := svc.UbahStatus(context.Background(), uuid.New(), uuid.New(), StatusSedangDikerjakan)
	assert.ErrorIs(t, err, ErrBukanPemilik)
}
