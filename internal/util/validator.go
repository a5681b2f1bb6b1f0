package util

import (
	"net/mail"
	"strings"
	"unicode"
)

const karakterUnik = "!@#$%^&*"

// ValidationError membedakan kegagalan validasi input dari error internal;
// pesannya aman ditampilkan ke klien.
type ValidationError struct {
	Pesan string
}

func (e *ValidationError) Error() string {
	return e.Pesan
}

func salahValidasi(pesan string) error {
	return &ValidationError{Pesan: pesan}
}

// ValidasiEmail mengembalikan error untuk alamat email yang tidak valid.
func ValidasiEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return salahValidasi("email wajib diisi")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return salahValidasi("email tidak valid")
	}
	return nil
}

// ValidasiSandi memeriksa kebijakan password: minimal 8 karakter, mengandung
// huruf besar, angka, dan karakter unik (!@#$%^&*).
func ValidasiSandi(sandi string) error {
	if len(sandi) < 8 {
		return errKebijakanSandi
	}

	var besar, angka, unik bool
	for _, r := range sandi {
		switch {
		case unicode.IsUpper(r):
			besar = true
		case unicode.IsDigit(r):
			angka = true
		case strings.ContainsRune(karakterUnik, r):
			unik = true
		}
	}

	if !besar || !angka || !unik {
		return errKebijakanSandi
	}
	return nil
}

var errKebijakanSandi = salahValidasi("password harus minimal 8 karakter, mengandung huruf besar, angka, dan karakter unik (!@#$%^&*)")

// RequireString memastikan string tidak kosong.
func RequireString(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return salahValidasi(field + " wajib diisi")
	}
	return nil
}
