package repo

import "errors"

var (
	// ErrNotFound dikembalikan ketika tidak ada baris yang cocok.
	ErrNotFound = errors.New("data tidak ditemukan")
)
