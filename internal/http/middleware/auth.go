package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/silahar3272/silahar/internal/auth"
)

type contextKey string

const (
	ContextKeySubject contextKey = "subject"
	ContextKeyRoles   contextKey = "roles"
	ContextKeyNama    contextKey = "nama_lengkap"
	ContextKeyNip     contextKey = "nip"
)

// Auth memvalidasi JWT akses dan menyuntikkan claims ke context. Identitas
// pengguna selalu diturunkan dari token terverifikasi, bukan dari body request.
func Auth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "AUTH", "token tidak ditemukan")
				return
			}

			claims, err := jwtManager.ParseAndValidate(parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "AUTH", "token tidak valid")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySubject, claims.Subject)
			ctx = context.WithValue(ctx, ContextKeyRoles, claims.Roles)
			ctx = context.WithValue(ctx, ContextKeyNama, claims.NamaLengkap)
			ctx = context.WithValue(ctx, ContextKeyNip, claims.Nip)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubject mengambil subject dari context.
func GetSubject(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeySubject).(string)
	return val
}

// GetRoles mengambil roles dari context.
func GetRoles(ctx context.Context) []string {
	val, _ := ctx.Value(ContextKeyRoles).([]string)
	return val
}

// GetNamaLengkap mengambil nama lengkap dari context.
func GetNamaLengkap(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeyNama).(string)
	return val
}

// GetNip mengambil NIP dari context.
func GetNip(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeyNip).(string)
	return val
}

// RequireAdmin membatasi akses hanya untuk role admin.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRoles("admin")(next)
}

// RequireRoles memastikan pengguna memiliki minimal satu role yang diminta.
func RequireRoles(requiredRoles ...string) func(http.Handler) http.Handler {
	normalized := make([]string, 0, len(requiredRoles))
	for _, role := range requiredRoles {
		role = strings.ToLower(strings.TrimSpace(role))
		if role != "" {
			normalized = append(normalized, role)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roles := GetRoles(r.Context())
			for _, role := range roles {
				roleLower := strings.ToLower(strings.TrimSpace(role))
				for _, required := range normalized {
					if roleLower == required {
						next.ServeHTTP(w, r)
						return
					}
				}
			}

			writeError(w, http.StatusForbidden, "FORBIDDEN", "akses ditolak")
		})
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": nil,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
