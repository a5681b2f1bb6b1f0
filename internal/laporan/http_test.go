package laporan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silahar3272/silahar/internal/dokumen"
	"github.com/silahar3272/silahar/internal/http/middleware"
	"github.com/silahar3272/silahar/internal/storage"
)

type stubPenyimpan struct {
	ref      string
	dihapus  []string
	gagalErr error
}

func (s *stubPenyimpan) Simpan(_ context.Context, folder, nama string, _ []byte) (*storage.Berkas, error) {
	if s.gagalErr != nil {
		return nil, s.gagalErr
	}
	s.ref = "/uploads/" + folder + "/" + nama
	return &storage.Berkas{Ref: s.ref, Path: s.ref}, nil
}

func (s *stubPenyimpan) Hapus(_ context.Context, ref string) error {
	s.dihapus = append(s.dihapus, ref)
	return nil
}

type fetcherGagal struct{}

func (fetcherGagal) Ambil(context.Context, string) ([]byte, error) {
	return nil, errors.New("gambar tidak tersedia")
}

func newTestServer(t *testing.T, repo ReportRepository) (*httptest.Server, uuid.UUID, *stubPenyimpan) {
	t.Helper()

	penggunaID := uuid.New()
	penyimpan := &stubPenyimpan{}
	berkas, err := dokumen.NewPengelolaBerkas(t.TempDir(), 50*time.Millisecond)
	require.NoError(t, err)

	h := NewHandler(NewService(repo, nil), penyimpan, dokumen.NewRenderer(fetcherGagal{}, ""), berkas)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), middleware.ContextKeySubject, penggunaID.String())
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/laporan", h.Routes)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, penggunaID, penyimpan
}

func formLaporan(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestTambahLaporan(t *testing.T) {
	repo := &stubRepo{}
	srv, penggunaID, _ := newTestServer(t, repo)

	body, contentType := formLaporan(t, map[string]string{
		"jam_mulai":   "09:00",
		"jam_selesai": "10:30",
		"deskripsi":   "rapat koordinasi",
	})

	resp, err := http.Post(srv.URL+"/laporan/tambah", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, repo.simpanParams)
	assert.Equal(t, penggunaID, repo.simpanParams.PenggunaID)
	assert.Equal(t, "09:00", repo.simpanParams.JamMulai)
}

func TestTambahLaporanJamTidakValid(t *testing.T) {
	srv, _, _ := newTestServer(t, &stubRepo{})

	body, contentType := formLaporan(t, map[string]string{
		"jam_mulai":   "17:00",
		"jam_selesai": "18:00",
		"deskripsi":   "lembur",
	})

	resp, err := http.Post(srv.URL+"/laporan/tambah", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "VALIDATION", payload.Error.Code)
	assert.Contains(t, payload.Error.Message, "08:00-16:00")
}

func TestTambahLaporanBentrok(t *testing.T) {
	repo := &stubRepo{simpanErr: ErrJadwalBentrok}
	srv, _, _ := newTestServer(t, repo)

	body, contentType := formLaporan(t, map[string]string{
		"jam_mulai":   "09:00",
		"jam_selesai": "10:00",
		"deskripsi":   "rapat",
	})

	resp, err := http.Post(srv.URL+"/laporan/tambah", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestTambahLaporanDeskripsiKosong(t *testing.T) {
	srv, _, _ := newTestServer(t, &stubRepo{})

	body, contentType := formLaporan(t, map[string]string{
		"jam_mulai":   "09:00",
		"jam_selesai": "10:00",
	})

	resp, err := http.Post(srv.URL+"/laporan/tambah", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestByPenggunaTanggalTidakDitemukan(t *testing.T) {
	srv, _, _ := newTestServer(t, &stubRepo{})

	resp, err := http.Get(srv.URL + "/laporan/" + uuid.NewString() + "/2026-08-01")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnduhHarian(t *testing.T) {
	id := uuid.New()
	repo := &stubRepo{render: []LaporanRender{
		{Laporan: Laporan{PenggunaID: id, NamaLengkap: "Budi Santoso", Nip: "111",
			Tanggal: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), JamMulai: "08:00", JamSelesai: "09:00", Deskripsi: "apel pagi"}},
	}}
	srv, _, _ := newTestServer(t, repo)

	resp, err := http.Get(srv.URL + "/laporan/download-laporan?pengguna_id=" + id.String() + "&tanggal=2026-08-01")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Laporan_"+id.String()+"_2026-08-01.pdf")

	isi := make([]byte, 5)
	_, err = resp.Body.Read(isi)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(isi))
}

func TestUnduhRentangSemuaPengguna(t *testing.T) {
	budi, sari := uuid.New(), uuid.New()
	repo := &stubRepo{renderSemua: []LaporanRender{
		{Laporan: Laporan{PenggunaID: budi, NamaLengkap: "Budi Santoso", Nip: "111",
			Tanggal: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC), JamMulai: "08:00", JamSelesai: "09:00", Deskripsi: "apel"}},
		{Laporan: Laporan{PenggunaID: sari, NamaLengkap: "Sari Dewi", Nip: "222",
			Tanggal: time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC), JamMulai: "09:00", JamSelesai: "10:00", Deskripsi: "rapat"}},
	}}
	srv, _, _ := newTestServer(t, repo)

	resp, err := http.Get(srv.URL + "/laporan/download/all/2026-08-01/2026-08-31")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Laporan_SemuaPengguna_2026-08-01_sampai_2026-08-31.pdf")
}

func TestUnduhRentangTanggalTerbalik(t *testing.T) {
	srv, _, _ := newTestServer(t, &stubRepo{})

	resp, err := http.Get(srv.URL + "/laporan/download/all/2026-08-31/2026-08-01")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnduhRentangKosong(t *testing.T) {
	srv, _, _ := newTestServer(t, &stubRepo{})

	resp, err := http.Get(srv.URL + "/laporan/download/all/2026-08-01/2026-08-31")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBerkasUnduhanDihapusSetelahTunda(t *testing.T) {
	dir := t.TempDir()
	berkas, err := dokumen.NewPengelolaBerkas(dir, 20*time.Millisecond)
	require.NoError(t, err)

	path, err := berkas.Tulis("contoh.pdf", func(w io.Writer) error {
		_, err := w.Write([]byte("%PDF-1.4"))
		return err
	})
	require.NoError(t, err)
	require.FileExists(t, path)

	berkas.JadwalkanHapus(path)
	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return os.IsNotExist(err)
	}, time.Second, 10*time.Millisecond)
}

func TestNamaBerkasAman(t *testing.T) {
	assert.Equal(t, "Budi_Santoso", dokumen.NamaBerkasAman("Budi Santoso"))
	assert.Equal(t, "laporan.pdf", dokumen.NamaBerkasAman("la/por\\an.pdf"))
	assert.False(t, strings.ContainsAny(dokumen.NamaBerkasAman(`a"b;c`), `";`))
}
