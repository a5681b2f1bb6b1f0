package laporan

import (
	"regexp"
	"strconv"
	"strings"
)

// Jam kerja kantor: 08.00 s.d. 16.00, dihitung dalam menit sejak tengah malam.
const (
	MenitMulaiKerja   = 8 * 60
	MenitSelesaiKerja = 16 * 60
)

var polaJam = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// MenitDariJam mengubah "HH:MM" menjadi menit sejak tengah malam. Mengembalikan
// false bila format tidak sesuai pola 24 jam.
func MenitDariJam(jam string) (int, bool) {
	if !polaJam.MatchString(jam) {
		return 0, false
	}

	parts := strings.SplitN(jam, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h*60 + m, true
}

// ValidJamRange memvalidasi rentang jam laporan: keduanya berformat HH:MM,
// berada dalam jam kerja, dan jam selesai setelah jam mulai. Tidak ada aturan
// kelipatan menit; granularitas bebas selama urut dan di dalam jam kerja.
func ValidJamRange(jamMulai, jamSelesai string) bool {
	mulai, ok := MenitDariJam(jamMulai)
	if !ok {
		return false
	}
	selesai, ok := MenitDariJam(jamSelesai)
	if !ok {
		return false
	}

	if mulai < MenitMulaiKerja || selesai > MenitSelesaiKerja {
		return false
	}

	return selesai > mulai
}
