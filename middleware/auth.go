// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Middleware Pattern nedir?
// Her HTTP request, handler'a ulaşmadan önce bir veya daha fazla middleware'dan geçer.
//
// Go'da middleware bir fonksiyondur:
//
//	func(next http.Handler) http.Handler
//
// "next" parametresi zincirdeki bir sonraki handler'dır.
// Middleware kendi işini yapar (ör: token doğrula), sonra next'i çağırır.
// Eğer hata varsa next'i çağırmaz → request burada durur.
package middleware

import (
	"net/http"

	"github.com/gamerscream/gamerscream/pkg"
	"github.com/gamerscream/gamerscream/services"
)

// AccessTokenHeader, desktop client'ın access token'ı taşıdığı header.
const AccessTokenHeader = "X-Access-Token"

// AuthMiddleware, access token doğrulama middleware'ı.
//
// Bu, authorization'ın TEK choke point'idir: PIN/health/token-verify
// dışındaki her endpoint bundan geçer. Token content-addressed olduğu
// için burada DB lookup yoktur — doğrulama saf hesaplamadır.
type AuthMiddleware struct {
	authService services.AuthService
}

// NewAuthMiddleware, constructor.
func NewAuthMiddleware(authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Require, geçerli access token zorunlu kılan middleware.
// Token yoksa veya geçersizse → 401 Unauthorized, next ÇAĞRILMAZ.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(AccessTokenHeader)
		if token == "" || !m.authService.ValidateAccessToken(token) {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "unauthorized — app PIN required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
