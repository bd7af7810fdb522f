// Package services — VoiceService: oda kapsamlı join credential üretimi.
//
// Token generation nedir?
// LiveKit'e bağlanmak için client'ın kısa ömürlü bir JWT'ye ihtiyacı var.
// Bu token sunucu tarafında oluşturulur ve şunları içerir:
// - Hangi odaya katılabilir (TAM oda adı — wildcard yok)
// - Ses yayını yapıp dinleyebilir mi
// - Oda OLUŞTURAMAYACAĞI (roomCreate verilmez — client SFU üzerinde
//   keyfi oda açamaz, odalar sadece bu servisin bildiği isimlerdir)
// Token, LiveKit'in API key/secret çiftiyle imzalanır.
//
// PIN enforcement de burada: korumalı custom kanala token, ancak doğru
// kanal PIN'i ile verilir. Client tarafındaki PIN ekranı sadece UX'tir —
// asıl kapı bu servistir.
package services

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/livekit/protocol/auth"

	"github.com/gamerscream/gamerscream/config"
	"github.com/gamerscream/gamerscream/models"
	"github.com/gamerscream/gamerscream/pkg"
	"github.com/gamerscream/gamerscream/pkg/crypto"
)

const (
	maxUsernameLen = 20
	maxDeviceIDLen = 64

	// shortDeviceIDLen: identity suffix'inde kullanılan deviceId ön eki.
	// Amaç benzersizlik, gizlilik değil — 6 karakter, aynı ismi seçen
	// iki cihazı ayırmaya yeter.
	shortDeviceIDLen = 6

	// joinTokenTTL: uzun validite — bağlantı koptuğunda LiveKit
	// disconnect'i kendisi yönetir, token süresi oturumu sınırlamaz.
	joinTokenTTL = 24 * time.Hour
)

// usernamePattern: harf/rakam/alt çizgi/boşluk/tire. Görünen ad SFU
// metadata'sına ve diğer client'ların UI'ına gittiği için kısıtlı tutulur.
var usernamePattern = regexp.MustCompile(`^[\w\s\-]+$`)

// participantMetadata, join credential'ına gömülen katılımcı metadata'sı.
// Karşı taraftaki client'lar deviceId'yi volume tercihlerini cihaza göre
// saklamak için okur (bkz. client/session).
type participantMetadata struct {
	DeviceID string `json:"deviceId"`
}

// VoiceService, join credential üretimi interface'i.
type VoiceService interface {
	// IssueToken, istenen oda için kapsamlı LiveKit JWT üretir.
	//
	// Hatalar: pkg.ErrBadRequest (username/oda validasyonu),
	// pkg.ErrForbidden (korumalı kanalda eksik/yanlış PIN).
	IssueToken(req *models.JoinTokenRequest) (*models.JoinTokenResponse, error)
}

// voiceService, VoiceService'in concrete implementasyonu.
type voiceService struct {
	channels   ChannelService // PIN enforcement için
	livekitCfg config.LiveKitConfig
}

// NewVoiceService, constructor.
func NewVoiceService(channels ChannelService, livekitCfg config.LiveKitConfig) VoiceService {
	return &voiceService{
		channels:   channels,
		livekitCfg: livekitCfg,
	}
}

func (s *voiceService) IssueToken(req *models.JoinTokenRequest) (*models.JoinTokenResponse, error) {
	if req.Room == "" {
		return nil, fmt.Errorf("%w: username and room are required", pkg.ErrBadRequest)
	}

	cleanUsername, err := sanitizeUsername(req.Username)
	if err != nil {
		return nil, err
	}

	// Server-side PIN enforcement — sadece custom ve PIN'li kanallar için.
	// Default kanallar (ch-N) hiçbir zaman PIN korumalı değildir.
	if custom, ok := s.channels.GetCustom(req.Room); ok && custom.HasPin() {
		if req.Pin == "" || !crypto.SecureCompare(req.Pin, custom.Pin) {
			return nil, fmt.Errorf("%w: invalid PIN", pkg.ErrForbidden)
		}
	}

	safeDeviceID := req.DeviceID
	if len(safeDeviceID) > maxDeviceIDLen {
		safeDeviceID = safeDeviceID[:maxDeviceIDLen]
	}

	identity, err := deriveIdentity(cleanUsername, safeDeviceID)
	if err != nil {
		return nil, err
	}

	metadata, err := json.Marshal(participantMetadata{DeviceID: safeDeviceID})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode metadata", pkg.ErrInternal)
	}

	canPublish := true
	canSubscribe := true
	canPublishData := true

	// auth.NewAccessToken: LiveKit'in JWT builder'ı.
	// Grant SADECE istenen odayı kapsar; RoomCreate default false'tur
	// ve bilinçli olarak öyle bırakılır.
	at := auth.NewAccessToken(s.livekitCfg.APIKey, s.livekitCfg.APISecret)

	grant := &auth.VideoGrant{
		RoomJoin:       true,
		Room:           req.Room,
		CanPublish:     &canPublish,
		CanSubscribe:   &canSubscribe,
		CanPublishData: &canPublishData,
	}

	at.AddGrant(grant).
		SetIdentity(identity).
		SetName(cleanUsername). // Görünen ad suffix'siz kalır
		SetMetadata(string(metadata)).
		SetValidFor(joinTokenTTL)

	token, err := at.ToJWT()
	if err != nil {
		return nil, fmt.Errorf("failed to generate join token: %w", err)
	}

	return &models.JoinTokenResponse{
		Token:      token,
		LiveKitURL: s.livekitCfg.ClientURL,
	}, nil
}

// sanitizeUsername, görünen adı kırpar, uzunluğu sınırlar ve karakter
// set'ini doğrular.
func sanitizeUsername(username string) (string, error) {
	clean := strings.TrimSpace(username)
	if len(clean) > maxUsernameLen {
		clean = clean[:maxUsernameLen]
	}

	if clean == "" || !usernamePattern.MatchString(clean) {
		return "", fmt.Errorf("%w: invalid username (max %d chars, letters/numbers/spaces)", pkg.ErrBadRequest, maxUsernameLen)
	}

	return clean, nil
}

// deriveIdentity, çakışmaz SFU identity'si türetir.
//
// Aynı görünen adı seçen iki cihaz farklı identity almalıdır — yoksa SFU
// ikinci bağlantıda ilkini düşürür. deviceId ön eki bunun için yeter;
// deviceId yoksa (eski client) rastgele 3 byte kullanılır.
func deriveIdentity(cleanUsername, deviceID string) (string, error) {
	short := deviceID
	if len(short) > shortDeviceIDLen {
		short = short[:shortDeviceIDLen]
	}
	if short == "" {
		buf := make([]byte, 3)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("%w: failed to derive identity", pkg.ErrInternal)
		}
		short = hex.EncodeToString(buf)
	}
	return cleanUsername + "-" + short, nil
}
