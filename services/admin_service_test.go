package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gamerscream/gamerscream/config"
	"github.com/gamerscream/gamerscream/models"
	"github.com/gamerscream/gamerscream/pkg"
	"github.com/gamerscream/gamerscream/pkg/ratelimit"
)

func newAdminService(t *testing.T, secret string, policy PolicyService, rooms *fakeRoomDirectory) AdminService {
	t.Helper()

	limiter := ratelimit.New(10, time.Minute)
	t.Cleanup(limiter.Close)

	if rooms == nil {
		rooms = &fakeRoomDirectory{counts: map[string]int{}}
	}

	return NewAdminService(config.AdminConfig{Secret: secret}, limiter, policy, rooms)
}

func TestAdminService_FailsClosedWithoutSecret(t *testing.T) {
	policy := &fakePolicy{pin: "1520", secret: "s"}
	s := newAdminService(t, "", policy, nil)

	// Secret yapılandırılmamışsa HER işlem 503 — doğru secret diye bir
	// şey yoktur, bypass yoktur.
	require.ErrorIs(t, s.Verify("ip", "anything"), pkg.ErrUnavailable)
	require.ErrorIs(t, s.ChangePin(t.Context(), "ip", "anything", "9999"), pkg.ErrUnavailable)
	require.ErrorIs(t, s.InvalidateTokens(t.Context(), "ip", "anything"), pkg.ErrUnavailable)

	_, err := s.KickAll(t.Context(), "ip", "anything")
	require.ErrorIs(t, err, pkg.ErrUnavailable)
}

func TestAdminService_Verify(t *testing.T) {
	policy := &fakePolicy{pin: "1520", secret: "s"}
	s := newAdminService(t, "operator-secret", policy, nil)

	require.NoError(t, s.Verify("ip", "operator-secret"))
	require.ErrorIs(t, s.Verify("ip", "wrong"), pkg.ErrForbidden)
	require.ErrorIs(t, s.Verify("ip", ""), pkg.ErrForbidden)
}

func TestAdminService_RateLimited(t *testing.T) {
	policy := &fakePolicy{pin: "1520", secret: "s"}

	limiter := ratelimit.New(3, time.Minute)
	t.Cleanup(limiter.Close)

	s := NewAdminService(config.AdminConfig{Secret: "operator-secret"}, limiter, policy,
		&fakeRoomDirectory{counts: map[string]int{}})

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, s.Verify("ip", "wrong"), pkg.ErrForbidden)
	}

	// Limit aşıldığında doğru secret bile 429 alır.
	require.ErrorIs(t, s.Verify("ip", "operator-secret"), pkg.ErrRateLimited)
}

func TestAdminService_ChangePin(t *testing.T) {
	policy := &fakePolicy{pin: "1520", secret: "original-secret"}
	s := newAdminService(t, "operator-secret", policy, nil)

	// Kısa PIN reddedilir.
	require.ErrorIs(t, s.ChangePin(t.Context(), "ip", "operator-secret", "123"), pkg.ErrBadRequest)
	require.Equal(t, "1520", policy.CurrentPin())

	require.NoError(t, s.ChangePin(t.Context(), "ip", "operator-secret", "9999"))
	require.Equal(t, "9999", policy.CurrentPin())

	// PIN değişimi secret'ı da döndürür — tüm oturumlar düşer.
	require.NotEqual(t, "original-secret", policy.CurrentSecret())
}

func TestAdminService_ChangePinInvalidatesAccessTokens(t *testing.T) {
	// Admin + auth birlikte: PIN değişiminden önce verilen token,
	// değişimden sonra geçersiz olmalı.
	repo := &memPolicyRepo{}
	policy, err := NewPolicyService(t.Context(), repo, config.AccessConfig{
		AppPin:      "1520",
		TokenSecret: "seed-secret",
	})
	require.NoError(t, err)

	auth := newAuthService(t, policy, 10)
	admin := newAdminService(t, "operator-secret", policy, nil)

	token, err := auth.VerifyAppPin("ip", "1520")
	require.NoError(t, err)
	require.True(t, auth.ValidateAccessToken(token))

	require.NoError(t, admin.ChangePin(t.Context(), "ip", "operator-secret", "8080"))

	require.False(t, auth.ValidateAccessToken(token))

	// Eski PIN artık çalışmaz, yenisi çalışır.
	_, err = auth.VerifyAppPin("ip", "1520")
	require.ErrorIs(t, err, pkg.ErrForbidden)

	fresh, err := auth.VerifyAppPin("ip", "8080")
	require.NoError(t, err)
	require.True(t, auth.ValidateAccessToken(fresh))
}

func TestAdminService_InvalidateTokensKeepsPin(t *testing.T) {
	policy := &fakePolicy{pin: "1520", secret: "original-secret"}
	s := newAdminService(t, "operator-secret", policy, nil)

	require.NoError(t, s.InvalidateTokens(t.Context(), "ip", "operator-secret"))
	require.Equal(t, "1520", policy.CurrentPin())
	require.NotEqual(t, "original-secret", policy.CurrentSecret())
}

func TestAdminService_KickAll(t *testing.T) {
	rooms := &fakeRoomDirectory{
		counts: map[string]int{"ch-1": 2, "custom-1-ab": 1},
		participants: map[string][]models.ParticipantInfo{
			"ch-1":        {{Identity: "a-111111"}, {Identity: "b-222222"}},
			"custom-1-ab": {{Identity: "c-333333"}},
		},
	}
	policy := &fakePolicy{pin: "1520", secret: "s"}
	s := newAdminService(t, "operator-secret", policy, rooms)

	kicked, err := s.KickAll(t.Context(), "ip", "operator-secret")
	require.NoError(t, err)
	require.Equal(t, 3, kicked)
	require.Len(t, rooms.removed, 3)
}

func TestAdminService_KickAll_BestEffort(t *testing.T) {
	rooms := &fakeRoomDirectory{
		counts: map[string]int{"ch-1": 2},
		participants: map[string][]models.ParticipantInfo{
			"ch-1": {{Identity: "a-111111"}, {Identity: "b-222222"}},
		},
		removeErr: map[string]error{"a-111111": errors.New("already gone")},
	}
	policy := &fakePolicy{pin: "1520", secret: "s"}
	s := newAdminService(t, "operator-secret", policy, rooms)

	// Tekil removal hatası işlemi durdurmaz, sadece sayılmaz.
	kicked, err := s.KickAll(t.Context(), "ip", "operator-secret")
	require.NoError(t, err)
	require.Equal(t, 1, kicked)
}

func TestAdminService_KickAll_ListFailure(t *testing.T) {
	rooms := &fakeRoomDirectory{listErr: errors.New("sfu down")}
	policy := &fakePolicy{pin: "1520", secret: "s"}
	s := newAdminService(t, "operator-secret", policy, rooms)

	_, err := s.KickAll(t.Context(), "ip", "operator-secret")
	require.ErrorIs(t, err, pkg.ErrInternal)
}
