package session

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// DefaultVolume, hiç ayar yapılmamış bir katılımcı için varsayılan ses (%).
const DefaultVolume = 100

// VolumeStore, katılımcı başına ses tercihlerini JSON dosyasında saklar.
//
// Anahtar, katılımcının deviceId'sidir (yoksa identity) — böylece aynı
// kişi farklı bir kanala veya farklı bir username ile girdiğinde ayarı
// korunur. Değerler 0-100 arası yüzdedir.
//
// Her Set yazma-yoluyla (write-through) persist eder: uygulama ne zaman
// kapanırsa kapansın son ayar diskte olur.
type VolumeStore struct {
	mu      sync.Mutex
	path    string
	volumes map[string]int
}

// NewVolumeStore, dosyadan mevcut tercihleri yükleyerek store oluşturur.
// Dosya yoksa veya bozuksa boş başlar — volume tercihi kaybı uygulamayı
// durduracak bir hata değildir.
func NewVolumeStore(path string) *VolumeStore {
	s := &VolumeStore{
		path:    path,
		volumes: make(map[string]int),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(raw, &s.volumes); err != nil {
		log.Printf("[volume] corrupt volume file, starting fresh: %v", err)
		s.volumes = make(map[string]int)
	}
	return s
}

// Get, anahtarın kayıtlı sesini döner; kayıt yoksa DefaultVolume.
func (s *VolumeStore) Get(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.volumes[key]; ok {
		return v
	}
	return DefaultVolume
}

// Set, sesi kaydeder ve hemen diske yazar. Değer 0-100'e sıkıştırılır.
func (s *VolumeStore) Set(key string, volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.volumes[key] = volume

	if err := s.persist(); err != nil {
		// Disk hatası ses ayarını engellemez — sadece kalıcılığı.
		log.Printf("[volume] failed to persist volumes: %v", err)
	}
}

// persist, map'i atomik olarak yazar: önce temp dosya, sonra rename.
// Yarıda kesilen bir yazma mevcut dosyayı bozamaz. Caller lock tutar.
func (s *VolumeStore) persist() error {
	raw, err := json.MarshalIndent(s.volumes, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace volume file: %w", err)
	}
	return nil
}
