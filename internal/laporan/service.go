package laporan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrJamTidakValid menandakan jam mulai/selesai gagal validasi rentang kerja.
var ErrJamTidakValid = errors.New("waktu mulai dan selesai tidak sesuai dengan jadwal yang diizinkan")

const (
	cacheTTL        = 60 * time.Second
	cacheKeyHariIni = "laporan:hari-ini"
	cacheKeyGrafik  = "laporan:grafik"
)

// ReportRepository abstraksi akses data laporan, memudahkan stub di pengujian.
type ReportRepository interface {
	SimpanLaporan(ctx context.Context, arg SimpanLaporanParams) (uuid.UUID, error)
	ListHariIni(ctx context.Context) ([]Laporan, error)
	ListByPenggunaTanggal(ctx context.Context, penggunaID uuid.UUID, tanggal time.Time) ([]Laporan, error)
	RenderByPenggunaTanggal(ctx context.Context, penggunaID uuid.UUID, tanggal time.Time) ([]LaporanRender, error)
	RenderRentang(ctx context.Context, awal, akhir time.Time) ([]LaporanRender, error)
	RenderRentangPengguna(ctx context.Context, penggunaID uuid.UUID, awal, akhir time.Time) ([]LaporanRender, error)
	GrafikHariIni(ctx context.Context) ([]GrafikSlot, error)
}

// Service memuat aturan bisnis laporan harian.
type Service struct {
	repo  ReportRepository
	cache *redis.Client
}

func NewService(repo ReportRepository, cache *redis.Client) *Service {
	return &Service{repo: repo, cache: cache}
}

// SubmitParams data submit laporan baru. Identitas pelapor diambil dari token,
// tanggal diisi database dengan CURRENT_DATE saat insert.
type SubmitParams struct {
	PenggunaID   uuid.UUID
	JamMulai     string
	JamSelesai   string
	Deskripsi    string
	FotoKegiatan *string
}

// Submit memvalidasi rentang jam lalu menyimpan laporan. Jam dinormalisasi ke
// bentuk dua digit supaya tampilan dan pengurutan konsisten.
func (s *Service) Submit(ctx context.Context, arg SubmitParams) (uuid.UUID, error) {
	jamMulai := strings.TrimSpace(arg.JamMulai)
	jamSelesai := strings.TrimSpace(arg.JamSelesai)

	if !ValidJamRange(jamMulai, jamSelesai) {
		return uuid.Nil, ErrJamTidakValid
	}

	menitMulai, _ := MenitDariJam(jamMulai)
	menitSelesai, _ := MenitDariJam(jamSelesai)

	id, err := s.repo.SimpanLaporan(ctx, SimpanLaporanParams{
		PenggunaID:   arg.PenggunaID,
		JamMulai:     fmt.Sprintf("%02d:%02d", menitMulai/60, menitMulai%60),
		JamSelesai:   fmt.Sprintf("%02d:%02d", menitSelesai/60, menitSelesai%60),
		MenitMulai:   menitMulai,
		MenitSelesai: menitSelesai,
		Deskripsi:    strings.TrimSpace(arg.Deskripsi),
		FotoKegiatan: arg.FotoKegiatan,
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.invalidasiCache(ctx)
	return id, nil
}

// LaporanHariIni mengembalikan seluruh laporan hari ini, dengan cache singkat
// karena endpoint ini dipanggil berulang oleh dashboard.
func (s *Service) LaporanHariIni(ctx context.Context) ([]Laporan, error) {
	if hasil, ok := ambilCache[[]Laporan](ctx, s.cache, cacheKeyHariIni); ok {
		return hasil, nil
	}

	hasil, err := s.repo.ListHariIni(ctx)
	if err != nil {
		return nil, err
	}

	simpanCache(ctx, s.cache, cacheKeyHariIni, hasil)
	return hasil, nil
}

// LaporanPengguna mengembalikan laporan satu pengguna pada satu tanggal.
// Mengembalikan ErrTidakAdaLaporan bila kosong.
func (s *Service) LaporanPengguna(ctx context.Context, penggunaID uuid.UUID, tanggal time.Time) ([]Laporan, error) {
	hasil, err := s.repo.ListByPenggunaTanggal(ctx, penggunaID, tanggal)
	if err != nil {
		return nil, err
	}
	if len(hasil) == 0 {
		return nil, ErrTidakAdaLaporan
	}
	return hasil, nil
}

// Grafik mengembalikan slot jam hari ini per pengguna untuk grafik kehadiran.
func (s *Service) Grafik(ctx context.Context) ([]GrafikSlot, error) {
	if hasil, ok := ambilCache[[]GrafikSlot](ctx, s.cache, cacheKeyGrafik); ok {
		return hasil, nil
	}

	hasil, err := s.repo.GrafikHariIni(ctx)
	if err != nil {
		return nil, err
	}

	simpanCache(ctx, s.cache, cacheKeyGrafik, hasil)
	return hasil, nil
}

// KelompokHarian mengambil bahan dokumen harian satu pengguna.
func (s *Service) KelompokHarian(ctx context.Context, penggunaID uuid.UUID, tanggal time.Time) (*KelompokLaporan, error) {
	baris, err := s.repo.RenderByPenggunaTanggal(ctx, penggunaID, tanggal)
	if err != nil {
		return nil, err
	}
	if len(baris) == 0 {
		return nil, ErrTidakAdaLaporan
	}
	return KelompokkanPerPengguna(baris)[0], nil
}

// KelompokRentang mengambil bahan dokumen rentang tanggal, seluruh pengguna
// atau satu pengguna bila penggunaID terisi.
func (s *Service) KelompokRentang(ctx context.Context, penggunaID *uuid.UUID, awal, akhir time.Time) ([]*KelompokLaporan, error) {
	var (
		baris []LaporanRender
		err   error
	)
	if penggunaID != nil {
		baris, err = s.repo.RenderRentangPengguna(ctx, *penggunaID, awal, akhir)
	} else {
		baris, err = s.repo.RenderRentang(ctx, awal, akhir)
	}
	if err != nil {
		return nil, err
	}
	if len(baris) == 0 {
		return nil, ErrTidakAdaLaporan
	}
	return KelompokkanPerPengguna(baris), nil
}

func (s *Service) invalidasiCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKeyHariIni, cacheKeyGrafik).Err(); err != nil {
		log.Warn().Err(err).Msg("gagal menghapus cache laporan")
	}
}

func ambilCache[T any](ctx context.Context, cache *redis.Client, key string) (T, bool) {
	var kosong T
	if cache == nil {
		return kosong, false
	}

	payload, err := cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("gagal membaca cache laporan")
		}
		return kosong, false
	}

	var hasil T
	if err := json.Unmarshal(payload, &hasil); err != nil {
		return kosong, false
	}
	return hasil, true
}

func simpanCache[T any](ctx context.Context, cache *redis.Client, key string, nilai T) {
	if cache == nil {
		return
	}

	payload, err := json.Marshal(nilai)
	if err != nil {
		return
	}
	if err := cache.Set(ctx, key, payload, cacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("gagal menulis cache laporan")
	}
}
