package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LoadOrCreateDeviceID, cihaz başına BİR KEZ üretilen kalıcı rastgele
// kimliği döner.
//
// İki amacı var (server tarafındaki JoinTokenRequest ile aynı sözleşme):
// 1. Aynı görünen adı seçen iki cihazın SFU identity'lerinin çakışmaması
// 2. Karşı taraftaki client'ların volume tercihlerini cihaza göre saklaması
//
// Dosya yoksa veya bozuksa yeni bir UUID üretilir ve yazılır — eski volume
// eşleşmeleri kaybolur ama uygulama çalışmaya devam eder.
func LoadOrCreateDeviceID(path string) (string, error) {
	if raw, err := os.ReadFile(path); err == nil {
		id := strings.TrimSpace(string(raw))
		if _, parseErr := uuid.Parse(id); parseErr == nil {
			return id, nil
		}
	}

	id := uuid.NewString()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create device id directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(id), 0600); err != nil {
		return "", fmt.Errorf("failed to persist device id: %w", err)
	}

	return id, nil
}
