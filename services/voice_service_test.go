package services

import (
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/gamerscream/gamerscream/config"
	"github.com/gamerscream/gamerscream/models"
	"github.com/gamerscream/gamerscream/pkg"
)

const (
	testAPIKey    = "devkey"
	testAPISecret = "0123456789abcdef0123456789abcdef" // 32 karakter — LiveKit minimumu
)

func newVoiceService(t *testing.T) (VoiceService, ChannelService) {
	t.Helper()

	channels := NewChannelService(&fakeRoomDirectory{counts: map[string]int{}})
	voice := NewVoiceService(channels, config.LiveKitConfig{
		ClientURL: "ws://localhost:7880",
		APIKey:    testAPIKey,
		APISecret: testAPISecret,
	})
	return voice, channels
}

// decodeJoinToken, üretilen JWT'yi imza doğrulamasıyla çözer.
func decodeJoinToken(t *testing.T, token string) jwt.MapClaims {
	t.Helper()

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(testAPISecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	return claims
}

func TestVoiceService_IssueToken_Validation(t *testing.T) {
	voice, _ := newVoiceService(t)

	cases := []struct {
		name string
		req  models.JoinTokenRequest
	}{
		{"empty room", models.JoinTokenRequest{Username: "Player"}},
		{"empty username", models.JoinTokenRequest{Room: "ch-1"}},
		{"whitespace username", models.JoinTokenRequest{Username: "   ", Room: "ch-1"}},
		{"invalid characters", models.JoinTokenRequest{Username: "ha<script>", Room: "ch-1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := voice.IssueToken(&tc.req)
			require.ErrorIs(t, err, pkg.ErrBadRequest)
		})
	}
}

func TestVoiceService_IssueToken_GrantScope(t *testing.T) {
	voice, _ := newVoiceService(t)

	resp, err := voice.IssueToken(&models.JoinTokenRequest{
		Username: "Player One",
		Room:     "ch-3",
		DeviceID: "device-12345678",
	})
	require.NoError(t, err)
	require.Equal(t, "ws://localhost:7880", resp.LiveKitURL)

	claims := decodeJoinToken(t, resp.Token)

	// Identity: görünen ad + deviceId'nin ilk 6 karakteri.
	require.Equal(t, "Player One-device", claims["sub"])
	require.Equal(t, "Player One", claims["name"])
	require.Contains(t, claims["metadata"], `"deviceId":"device-12345678"`)

	video, ok := claims["video"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "ch-3", video["room"])
	require.Equal(t, true, video["roomJoin"])
	require.Equal(t, true, video["canPublish"])
	require.Equal(t, true, video["canSubscribe"])

	// Oda oluşturma yetkisi ASLA verilmez.
	created, exists := video["roomCreate"]
	if exists {
		require.NotEqual(t, true, created)
	}
}

func TestVoiceService_IssueToken_UsernameSanitization(t *testing.T) {
	voice, _ := newVoiceService(t)

	// 20 karakterden uzun isim kırpılır, trim sonrası doğrulanır.
	resp, err := voice.IssueToken(&models.JoinTokenRequest{
		Username: "  " + strings.Repeat("a", 30),
		Room:     "ch-1",
		DeviceID: "abcdef123",
	})
	require.NoError(t, err)

	claims := decodeJoinToken(t, resp.Token)
	require.Equal(t, strings.Repeat("a", 20), claims["name"])
}

func TestVoiceService_IssueToken_NoDeviceID(t *testing.T) {
	voice, _ := newVoiceService(t)

	resp, err := voice.IssueToken(&models.JoinTokenRequest{
		Username: "Player",
		Room:     "ch-1",
	})
	require.NoError(t, err)

	// deviceId yoksa rastgele 3 byte (6 hex karakter) suffix üretilir.
	claims := decodeJoinToken(t, resp.Token)
	identity, ok := claims["sub"].(string)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(identity, "Player-"))
	require.Len(t, strings.TrimPrefix(identity, "Player-"), 6)
}

func TestVoiceService_IssueToken_PinEnforcement(t *testing.T) {
	voice, channels := newVoiceService(t)

	protected, err := channels.Create(&models.CreateChannelRequest{Name: "secret", Pin: "42"})
	require.NoError(t, err)

	// PIN yok → 403. Yanlış PIN → 403. Client'taki PIN ekranı atlatılsa
	// bile token çıkmaz.
	_, err = voice.IssueToken(&models.JoinTokenRequest{Username: "P", Room: protected.RoomName})
	require.ErrorIs(t, err, pkg.ErrForbidden)

	_, err = voice.IssueToken(&models.JoinTokenRequest{Username: "P", Room: protected.RoomName, Pin: "41"})
	require.ErrorIs(t, err, pkg.ErrForbidden)

	resp, err := voice.IssueToken(&models.JoinTokenRequest{Username: "P", Room: protected.RoomName, Pin: "42"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
}

func TestVoiceService_IssueToken_DefaultChannelsNeverNeedPin(t *testing.T) {
	voice, _ := newVoiceService(t)

	resp, err := voice.IssueToken(&models.JoinTokenRequest{Username: "P", Room: "ch-1"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
}
