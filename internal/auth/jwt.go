package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims memuat informasi yang dibawa JWT akses. Nama lengkap dan NIP ikut
// dibawa agar klien tidak perlu memanggil profil untuk menampilkan identitas.
type Claims struct {
	Roles       []string `json:"roles"`
	NamaLengkap string   `json:"nama_lengkap"`
	Nip         string   `json:"nip"`
	jwt.RegisteredClaims
}

// JWTManager membungkus pembuatan dan validasi token.
type JWTManager struct {
	secret    []byte
	accessTTL time.Duration
}

// NewJWTManager membuat manajer dengan secret dan TTL dari konfigurasi.
func NewJWTManager(secret string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), accessTTL: accessTTL}
}

// GenerateAccessToken membuat JWT HS256 dengan claims standar.
func (m *JWTManager) GenerateAccessToken(subject, namaLengkap, nip string, roles []string) (string, string, error) {
	now := time.Now().UTC()
	jti := uuid.NewString()

	claims := Claims{
		Roles:       roles,
		NamaLengkap: namaLengkap,
		Nip:         nip,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", "", err
	}

	return signed, jti, nil
}

// ParseAndValidate memeriksa tanda tangan dan masa berlaku token.
func (m *JWTManager) ParseAndValidate(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("token tidak valid")
	}

	return claims, nil
}
