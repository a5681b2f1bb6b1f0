package laporan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMenitDariJam(t *testing.T) {
	cases := []struct {
		jam   string
		menit int
		ok    bool
	}{
		{"08:00", 480, true},
		{"8:00", 480, true},
		{"16:00", 960, true},
		{"23:59", 1439, true},
		{"0:05", 5, true},
		{"24:00", 0, false},
		{"16:60", 0, false},
		{"0800", 0, false},
		{"8.30", 0, false},
		{"", 0, false},
		{"ab:cd", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.jam, func(t *testing.T) {
			menit, ok := MenitDariJam(tc.jam)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.menit, menit)
			}
		})
	}
}

func TestValidJamRange(t *testing.T) {
	cases := []struct {
		nama       string
		mulai      string
		selesai    string
		diharapkan bool
	}{
		{"rentang normal", "09:00", "10:00", true},
		{"batas bawah jam kerja", "08:00", "08:01", true},
		{"batas atas jam kerja", "15:59", "16:00", true},
		{"satu hari penuh", "08:00", "16:00", true},
		{"granularitas bebas", "10:15", "16:00", true},
		{"tanpa nol di depan", "8:30", "9:45", true},
		{"mulai sebelum jam kerja", "07:59", "09:00", false},
		{"selesai lewat jam kerja", "15:00", "16:01", false},
		{"selesai sama dengan mulai", "10:00", "10:00", false},
		{"selesai sebelum mulai", "11:00", "10:00", false},
		{"format mulai salah", "9", "10:00", false},
		{"format selesai salah", "09:00", "1000", false},
	}

	for _, tc := range cases {
		t.Run(tc.nama, func(t *testing.T) {
			assert.Equal(t, tc.diharapkan, ValidJamRange(tc.mulai, tc.selesai))
		})
	}
}
