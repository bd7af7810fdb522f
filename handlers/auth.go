// Package handlers, HTTP isteklerini karşılayan katmandır.
//
// Handler'lar "ince" tutulur: request'i parse et, service'i çağır,
// sonucu JSON'a çevir. İş mantığı handler'da DEĞİL service'tedir —
// handler'ı test etmek için HTTP gerekir, service'i test etmek için gerekmez.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gamerscream/gamerscream/models"
	"github.com/gamerscream/gamerscream/pkg"
	"github.com/gamerscream/gamerscream/pkg/ratelimit"
	"github.com/gamerscream/gamerscream/services"
)

// AuthHandler, PIN kapısı ve access token endpoint'leri.
type AuthHandler struct {
	authService services.AuthService
	limiter     *ratelimit.Limiter // Retry-After header'ı için
}

// NewAuthHandler, constructor.
// limiter, AuthService'e verilen instance'ın AYNISI olmalıdır — handler
// onu sadece 429 yanıtına Retry-After eklemek için okur.
func NewAuthHandler(authService services.AuthService, limiter *ratelimit.Limiter) *AuthHandler {
	return &AuthHandler{authService: authService, limiter: limiter}
}

// Health — GET /api/health
// Load balancer / uptime monitör kontrolü. Auth gerektirmez.
// timestamp, client'ın beklediği gibi ISO-8601 string'dir.
func (h *AuthHandler) Health(w http.ResponseWriter, r *http.Request) {
	pkg.JSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

// VerifyAppPin — POST /api/verify-app-pin
// Başarıda 30 gün geçerli access token döner.
func (h *AuthHandler) VerifyAppPin(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ip := ratelimit.ExtractIP(r)

	token, err := h.authService.VerifyAppPin(ip, req.Pin)
	if err != nil {
		writeAuthError(w, h.limiter, ip, err)
		return
	}

	pkg.JSON(w, http.StatusOK, models.VerifyPinResponse{AccessToken: token})
}

// VerifyAccessToken — POST /api/verify-access-token
// Kayıtlı token hâlâ geçerli mi? Geçersiz token hata DEĞİLDİR —
// client PIN ekranına düşer, o kadar.
func (h *AuthHandler) VerifyAccessToken(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	valid := h.authService.ValidateAccessToken(req.AccessToken)
	pkg.JSON(w, http.StatusOK, models.VerifyTokenResponse{Valid: valid})
}

// writeAuthError, rate limit hatalarına Retry-After header'ı ekleyerek
// standart hata yanıtını yazar. Diğer hatalar olduğu gibi geçer.
func writeAuthError(w http.ResponseWriter, limiter *ratelimit.Limiter, ip string, err error) {
	if errors.Is(err, pkg.ErrRateLimited) {
		seconds := limiter.RetryAfterSeconds(ip)
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			"too many attempts, try again in "+ratelimit.FormatRetryMessage(seconds))
		return
	}
	pkg.Error(w, err)
}
