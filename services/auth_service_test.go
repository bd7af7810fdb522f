package services

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gamerscream/gamerscream/config"
	"github.com/gamerscream/gamerscream/pkg"
	"github.com/gamerscream/gamerscream/pkg/ratelimit"
)

func newAuthService(t *testing.T, policy PolicyService, maxAttempts int) AuthService {
	t.Helper()

	limiter := ratelimit.New(maxAttempts, time.Minute)
	t.Cleanup(limiter.Close)

	return NewAuthService(policy, limiter, config.AccessConfig{
		TokenTTL: 30 * 24 * time.Hour,
	})
}

func TestAuthService_VerifyAppPin_IssuesValidToken(t *testing.T) {
	policy := &fakePolicy{pin: "1520", secret: "test-signing-secret"}
	s := newAuthService(t, policy, 5)

	token, err := s.VerifyAppPin("1.2.3.4", "1520")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Format: "<expiresAtMillis>.<hexHMAC>"
	parts := strings.Split(token, ".")
	require.Len(t, parts, 2)

	expiresAt, err := strconv.ParseInt(parts[0], 10, 64)
	require.NoError(t, err)
	require.Greater(t, expiresAt, time.Now().UnixMilli())

	require.True(t, s.ValidateAccessToken(token))
}

func TestAuthService_VerifyAppPin_WrongPin(t *testing.T) {
	policy := &fakePolicy{pin: "1520", secret: "test-signing-secret"}
	s := newAuthService(t, policy, 5)

	_, err := s.VerifyAppPin("1.2.3.4", "0000")
	require.ErrorIs(t, err, pkg.ErrForbidden)

	_, err = s.VerifyAppPin("1.2.3.4", "")
	require.ErrorIs(t, err, pkg.ErrForbidden)
}

func TestAuthService_VerifyAppPin_RateLimited(t *testing.T) {
	policy := &fakePolicy{pin: "1520", secret: "test-signing-secret"}
	s := newAuthService(t, policy, 3)

	for i := 0; i < 3; i++ {
		_, err := s.VerifyAppPin("9.9.9.9", "wrong")
		require.ErrorIs(t, err, pkg.ErrForbidden)
	}

	// Limit dolduktan sonra DOĞRU PIN bile 429 alır — 429/403 farkından
	// PIN ayıklanamaz.
	_, err := s.VerifyAppPin("9.9.9.9", "1520")
	require.ErrorIs(t, err, pkg.ErrRateLimited)

	// Başka IP etkilenmez.
	_, err = s.VerifyAppPin("8.8.8.8", "1520")
	require.NoError(t, err)
}

func TestAuthService_ValidateAccessToken_Garbage(t *testing.T) {
	policy := &fakePolicy{pin: "1520", secret: "test-signing-secret"}
	s := newAuthService(t, policy, 5)

	// Hiçbiri panik üretmez, hepsi false'tur.
	garbage := []string{
		"",
		".",
		"..",
		"abc",
		"abc.def",
		"123.",
		".abc",
		"123.abc.def",
		"99999999999999999999999999.aa", // int64 taşması
		strings.Repeat("x", 10_000),
	}
	for _, token := range garbage {
		require.False(t, s.ValidateAccessToken(token), "token %q should be invalid", token)
	}
}

func TestAuthService_ValidateAccessToken_Expired(t *testing.T) {
	policy := &fakePolicy{pin: "1520", secret: "test-signing-secret"}
	s := newAuthService(t, policy, 5)

	// Geçmiş tarihli ama DOĞRU imzalı token — süre kontrolü imzadan bağımsız.
	payload := strconv.FormatInt(time.Now().Add(-time.Hour).UnixMilli(), 10)
	expired := payload + "." + sign(payload, policy.CurrentSecret())

	require.False(t, s.ValidateAccessToken(expired))
}

func TestAuthService_ValidateAccessToken_TamperedSignature(t *testing.T) {
	policy := &fakePolicy{pin: "1520", secret: "test-signing-secret"}
	s := newAuthService(t, policy, 5)

	token, err := s.VerifyAppPin("ip", "1520")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.False(t, s.ValidateAccessToken(parts[0]+"."+strings.Repeat("0", len(parts[1]))))

	// Son kullanma tarihini ileri atmak imzayı bozar.
	future := strconv.FormatInt(time.Now().Add(365*24*time.Hour).UnixMilli(), 10)
	require.False(t, s.ValidateAccessToken(future+"."+parts[1]))
}

func TestAuthService_SecretRotationInvalidatesTokens(t *testing.T) {
	policy := &fakePolicy{pin: "1520", secret: "test-signing-secret"}
	s := newAuthService(t, policy, 5)

	token, err := s.VerifyAppPin("ip", "1520")
	require.NoError(t, err)
	require.True(t, s.ValidateAccessToken(token))

	// Secret rotasyonu: uçuştaki TÜM token'lar anında ölür.
	require.NoError(t, policy.RotateSecret(t.Context()))
	require.False(t, s.ValidateAccessToken(token))

	// Yeni secret ile verilen token geçerlidir.
	fresh, err := s.VerifyAppPin("ip", "1520")
	require.NoError(t, err)
	require.True(t, s.ValidateAccessToken(fresh))
}
