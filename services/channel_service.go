// Package services — ChannelService: geçici kanal kayıt defteri.
//
// Sorumluluklar:
// 1. Custom kanal oluşturma (isim/PIN validasyonu, tahmin edilemez oda adı)
// 2. Kanal listesi: sabit default set + canlı custom set, SFU occupancy ile
// 3. Boş custom kanalların garbage collection'ı (grace period sonrası)
// 4. Kanal PIN doğrulaması
//
// Neden in-memory (DB değil)?
// Custom kanallar tanımı gereği geçicidir: içi boşalınca zaten silinirler
// ve SFU restart'ta odaları kaybeder. DB'ye yazmak sadece restart sonrası
// hayalet kanal bırakırdı. sync.RWMutex ile concurrent erişim güvenliği.
//
// GC neden List içinde?
// Occupancy verisi zaten her listelemede çekiliyor — ayrı bir timer
// goroutine'i aynı veriyi ikinci kez çekerdi. Invariant: grace period'ı
// doldurmuş boş bir custom kanal hiçbir List sonucunda görünmez.
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/gamerscream/gamerscream/models"
	"github.com/gamerscream/gamerscream/pkg"
	"github.com/gamerscream/gamerscream/pkg/cache"
	"github.com/gamerscream/gamerscream/pkg/crypto"
	"github.com/gamerscream/gamerscream/repository"
)

// Kanal oluşturma kuralları.
const (
	maxChannelNameLen = 20

	// emptyChannelGrace: boş custom kanalın silinmeden önce ulaşması
	// gereken minimum yaş. Kanalı oluşturan client'ın token alıp SFU'ya
	// bağlanması birkaç saniye sürer — grace period bu pencerede
	// "0 katılımcı" görüp kanalı silme race'ini kapatır.
	emptyChannelGrace = 10 * time.Second
)

// channelPinPattern: 1-4 haneli sayısal PIN.
var channelPinPattern = regexp.MustCompile(`^\d{1,4}$`)

// ChannelService, kanal kayıt defteri iş mantığı interface'i.
type ChannelService interface {
	// Create, yeni bir custom kanal oluşturur.
	// Hatalar: pkg.ErrBadRequest (isim/PIN validasyonu).
	Create(req *models.CreateChannelRequest) (*models.CreateChannelResponse, error)

	// List, default + custom kanalları occupancy ile döner ve bu sırada
	// grace period'ı dolmuş boş custom kanalları siler (GC-on-read).
	// SFU erişilemezse occupancy 0 kabul edilir ama GC YAPILMAZ —
	// veri yokken silmek yanlış pozitif üretir.
	List(ctx context.Context) ([]models.ChannelDescriptor, error)

	// VerifyPin, kanal PIN kontrolü. Kanal PIN'sizse true.
	// Bilinmeyen roomName için pkg.ErrNotFound döner — bilinen bir
	// tutarsızlık, gerekçesi DESIGN.md'de.
	VerifyPin(roomName, pin string) (bool, error)

	// GetCustom, roomName ile custom kanalı döner (join PIN enforcement
	// için VoiceService kullanır). Default kanallar burada görünmez.
	GetCustom(roomName string) (*models.CustomChannel, bool)
}

// channelService, ChannelService'in concrete implementasyonu.
type channelService struct {
	mu       sync.RWMutex
	channels map[string]*models.CustomChannel // roomName → channel

	rooms repository.RoomDirectory

	// occupancy cache: kısa TTL ile SFU management API'si, client
	// sayısından bağımsız yükte kalır. TTL (2s) grace period'dan (10s)
	// çok küçük — GC invariant'ı cache yüzünden gecikmez.
	occupancy *cache.TTLCache[string, map[string]int]
}

const occupancyCacheKey = "rooms"

// NewChannelService, constructor.
func NewChannelService(rooms repository.RoomDirectory) ChannelService {
	return &channelService{
		channels:  make(map[string]*models.CustomChannel),
		rooms:     rooms,
		occupancy: cache.New[string, map[string]int](2*time.Second, time.Minute),
	}
}

func (s *channelService) Create(req *models.CreateChannelRequest) (*models.CreateChannelResponse, error) {
	name := strings.TrimSpace(req.Name)

	if err := validation.Validate(name,
		validation.Required,
		validation.Length(1, maxChannelNameLen),
	); err != nil {
		return nil, fmt.Errorf("%w: channel name is required (max %d characters)", pkg.ErrBadRequest, maxChannelNameLen)
	}

	if req.Pin != "" {
		if err := validation.Validate(req.Pin,
			validation.Match(channelPinPattern),
		); err != nil {
			return nil, fmt.Errorf("%w: PIN must be 1-4 digits", pkg.ErrBadRequest)
		}
	}

	roomName, err := newRoomName()
	if err != nil {
		return nil, err
	}

	createdBy := strings.TrimSpace(req.CreatedBy)
	if createdBy == "" {
		createdBy = "unknown"
	}

	ch := &models.CustomChannel{
		Name:      name,
		RoomName:  roomName,
		Pin:       req.Pin,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.channels[roomName] = ch
	s.mu.Unlock()

	log.Printf("[channel] custom channel created: %q (%s)%s", ch.Name, roomName, pinSuffix(ch))

	return &models.CreateChannelResponse{
		Name:     ch.Name,
		RoomName: roomName,
		HasPin:   ch.HasPin(),
	}, nil
}

func (s *channelService) List(ctx context.Context) ([]models.ChannelDescriptor, error) {
	counts, haveCounts := s.fetchOccupancy(ctx)

	result := make([]models.ChannelDescriptor, 0, models.DefaultChannelCount)

	// Default kanallar her zaman listede, sırayla.
	for ch := 1; ch <= models.DefaultChannelCount; ch++ {
		roomName := fmt.Sprintf("ch-%d", ch)
		result = append(result, models.ChannelDescriptor{
			Channel:     ch,
			Name:        roomName,
			PlayerCount: counts[roomName],
		})
	}

	// Custom kanallar + GC-on-read.
	now := time.Now()

	s.mu.Lock()
	for roomName, custom := range s.channels {
		count := counts[roomName]

		if haveCounts && count == 0 && now.Sub(custom.CreatedAt) > emptyChannelGrace {
			delete(s.channels, roomName)
			log.Printf("[channel] custom channel auto-deleted: %q (%s)", custom.Name, roomName)
			continue
		}

		result = append(result, models.ChannelDescriptor{
			Name:        custom.Name,
			RoomName:    roomName, // client bağlanırken gerçek oda adını kullanır
			PlayerCount: count,
			HasPin:      custom.HasPin(),
			IsCustom:    true,
			CreatedBy:   custom.CreatedBy,
		})
	}
	s.mu.Unlock()

	return result, nil
}

func (s *channelService) VerifyPin(roomName, pin string) (bool, error) {
	ch, ok := s.GetCustom(roomName)
	if !ok {
		return false, fmt.Errorf("%w: channel not found", pkg.ErrNotFound)
	}

	if !ch.HasPin() {
		return true, nil
	}

	return crypto.SecureCompare(pin, ch.Pin), nil
}

func (s *channelService) GetCustom(roomName string) (*models.CustomChannel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.channels[roomName]
	return ch, ok
}

// fetchOccupancy, oda → katılımcı sayısı map'ini döner.
// İkinci dönüş değeri verinin SFU'dan (veya taze cache'ten) gelip
// gelmediğini söyler — false ise GC atlanmalıdır.
func (s *channelService) fetchOccupancy(ctx context.Context) (map[string]int, bool) {
	if cached, ok := s.occupancy.Get(occupancyCacheKey); ok {
		return cached, true
	}

	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		// SFU erişilemez — liste yine döner, sayılar 0 görünür.
		// Stale görünüm, client'a hata göstermekten iyidir.
		log.Printf("[channel] occupancy fetch failed: %v", err)
		return map[string]int{}, false
	}

	counts := make(map[string]int, len(rooms))
	for _, room := range rooms {
		counts[room.Name] = room.NumParticipants
	}

	s.occupancy.Set(occupancyCacheKey, counts)
	return counts, true
}

// newRoomName, çakışmaz ve tahmin edilemez bir oda adı üretir.
//
// Timestamp bileşeni restart'lar arası çakışmayı önler (sayaç değil),
// rastgele ek aynı milisaniyedeki iki isteği ayırır.
func newRoomName() (string, error) {
	buf := make([]byte, 2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%w: failed to generate room name", pkg.ErrInternal)
	}
	return fmt.Sprintf("custom-%d-%s", time.Now().UnixMilli(), hex.EncodeToString(buf)), nil
}

func pinSuffix(ch *models.CustomChannel) string {
	if ch.HasPin() {
		return " [PIN protected]"
	}
	return ""
}
