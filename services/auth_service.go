// Package services — AuthService: PIN kapısı ve access token codec'i.
//
// Access token nedir?
// PIN kapısından bir kez geçen kullanıcıya verilen, uzun ömürlü (30 gün)
// imzalı bir credential. Format:
//
//	"<expiresAtMillis>.<hex HMAC-SHA256(secret, expiresAtMillis)>"
//
// Server tarafında SAKLANMAZ — geçerlilik tamamen içeriğin ve o anki
// signing secret'ın fonksiyonudur. Bu sayede "tüm token'ları geçersiz kıl"
// sadece secret rotasyonudur (bkz. PolicyService).
//
// Neden JWT değil?
// Token kimlik taşımıyor; tek claim "son kullanma tarihi". Desktop client
// bu düz formatı bekler — header/payload/imza üçlüsü burada sadece yük olur.
// (LiveKit join credential'ları ayrı: onlar JWT'dir, bkz. VoiceService.)
package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gamerscream/gamerscream/config"
	"github.com/gamerscream/gamerscream/pkg"
	"github.com/gamerscream/gamerscream/pkg/crypto"
	"github.com/gamerscream/gamerscream/pkg/ratelimit"
)

// AuthService, PIN doğrulama ve access token işlemleri interface'i.
type AuthService interface {
	// VerifyAppPin, client IP'sini rate limit'e sokar, PIN'i timing-safe
	// karşılaştırır ve başarıda taze bir access token döner.
	//
	// Hatalar: pkg.ErrRateLimited (429), pkg.ErrForbidden (403).
	// Yanlış PIN'in "ne kadar yakın" olduğu ne timing'den ne response
	// şeklinden anlaşılabilir — tüm başarısızlıklar aynı görünür.
	VerifyAppPin(ip, pin string) (string, error)

	// ValidateAccessToken, token geçerliliğini döner. Asla hata/panik
	// üretmez — bozuk input sadece false'tur. Rate limit YOK: token'lar
	// 256-bit sınıfı secret'lardır, brute-force yüzeyi yoktur.
	ValidateAccessToken(token string) bool
}

// authService, AuthService'in concrete implementasyonu.
type authService struct {
	policy  PolicyService
	limiter *ratelimit.Limiter
	ttl     time.Duration
}

// NewAuthService, constructor.
// limiter, PIN doğrulamaya ÖZEL instance'tır (admin limiter'ından bağımsız).
func NewAuthService(policy PolicyService, limiter *ratelimit.Limiter, cfg config.AccessConfig) AuthService {
	return &authService{
		policy:  policy,
		limiter: limiter,
		ttl:     cfg.TokenTTL,
	}
}

func (s *authService) VerifyAppPin(ip, pin string) (string, error) {
	// Rate limit ÖNCE — PIN doğru olsa bile limit aşılmışsa 429.
	// Aksi halde saldırgan 429/403 farkından doğru PIN'i ayıklayabilirdi.
	if !s.limiter.Allow(ip) {
		return "", fmt.Errorf("%w: too many attempts, try again later", pkg.ErrRateLimited)
	}

	if pin == "" || !crypto.SecureCompare(pin, s.policy.CurrentPin()) {
		return "", fmt.Errorf("%w: invalid PIN", pkg.ErrForbidden)
	}

	return s.issueAccessToken(), nil
}

func (s *authService) ValidateAccessToken(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}

	expiresAt, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return false
	}
	if time.Now().UnixMilli() >= expiresAt {
		return false
	}

	// İmza, ÇAĞRI ANINDAKİ secret ile yeniden hesaplanır. Secret
	// döndürüldüyse eski imzalar burada düşer — invalidation mekanizması bu.
	expected := sign(parts[0], s.policy.CurrentSecret())
	return crypto.SecureCompare(parts[1], expected)
}

// issueAccessToken, şimdi+TTL son kullanma tarihli imzalı token üretir.
func (s *authService) issueAccessToken() string {
	payload := strconv.FormatInt(time.Now().Add(s.ttl).UnixMilli(), 10)
	return payload + "." + sign(payload, s.policy.CurrentSecret())
}

// sign, payload'ın HMAC-SHA256 imzasını hex olarak döner.
func sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
