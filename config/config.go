// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Config struct'ı tüm ayarları tek bir yerde toplar, böylece
// her yerde ayrı ayrı os.Getenv() çağırmak yerine tek bir Config nesnesi taşırız.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct — Single Responsibility: her struct tek bir concern'ü temsil eder.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	LiveKit  LiveKitConfig
	Access   AccessConfig
	Admin    AdminConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string // SQLite dosya yolu (ör: ./data/gamerscream.db)
}

// LiveKitConfig, LiveKit SFU server ayarları.
//
// URL ile ClientURL ayrımı: backend, management API'ye HTTPURL üzerinden
// erişir (listRooms, removeParticipant). Client'a dönen bağlantı adresi ise
// ClientURL'dir — NAT/reverse proxy arkasında ikisi farklı olabilir.
type LiveKitConfig struct {
	URL       string // WebSocket URL (ör: ws://localhost:7880)
	HTTPURL   string // Management API URL (ör: http://localhost:7880)
	ClientURL string // Client'lara dönen URL (boşsa URL kullanılır)
	APIKey    string
	APISecret string
}

// AccessConfig, uygulama PIN kapısı ve access token ayarları.
//
// AppPin ve TokenSecret buradaki değerler sadece İLK açılış için varsayılandır:
// admin PIN değiştirdiğinde güncel değerler veritabanında tutulur ve
// restart'ta oradan yüklenir (bkz. services.PolicyService).
type AccessConfig struct {
	AppPin      string        // Uygulama geneli paylaşılan PIN
	TokenSecret string        // Access token HMAC anahtarı (ilk açılış varsayılanı)
	TokenTTL    time.Duration // Access token geçerlilik süresi

	PinRateLimit  int           // PIN doğrulama: pencere başına deneme
	PinRateWindow time.Duration // PIN doğrulama: pencere süresi
}

// AdminConfig, admin panel ayarları.
//
// Secret boş bırakılabilir — bu durumda TÜM admin endpoint'leri 503 döner
// (fail closed). Güvensiz bir varsayılan secret YOKTUR.
type AdminConfig struct {
	Secret     string
	RateLimit  int
	RateWindow time.Duration
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
func Load() (*Config, error) {
	// .env dosyasını yükle — dosya yoksa hata vermez, sessizce devam eder.
	// Production'da bu dosya olmaz, gerçek env variable'lar kullanılır.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "3002"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	ttlDays, err := strconv.Atoi(getEnv("ACCESS_TOKEN_TTL_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_TTL_DAYS: %w", err)
	}

	lkURL := getEnv("LIVEKIT_URL", "ws://localhost:7880")
	lkSecret := getEnv("LIVEKIT_API_SECRET", "devsecret")

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/gamerscream.db"),
		},
		LiveKit: LiveKitConfig{
			URL:       lkURL,
			HTTPURL:   getEnv("LIVEKIT_HTTP_URL", "http://localhost:7880"),
			ClientURL: getEnv("LIVEKIT_CLIENT_URL", lkURL),
			APIKey:    getEnv("LIVEKIT_API_KEY", "devkey"),
			APISecret: lkSecret,
		},
		Access: AccessConfig{
			AppPin: getEnv("APP_PIN", "1520"),
			// Varsayılan secret LiveKit secret'ından türetilir — orijinal
			// kurulumlarla uyumluluk için. Admin "invalidate tokens" dediği
			// anda rastgele bir secret ile değiştirilir.
			TokenSecret:   getEnv("TOKEN_SECRET", lkSecret+"-gamerscream"),
			TokenTTL:      time.Duration(ttlDays) * 24 * time.Hour,
			PinRateLimit:  5,
			PinRateWindow: time.Minute,
		},
		Admin: AdminConfig{
			Secret:     getEnv("ADMIN_SECRET", ""),
			RateLimit:  3,
			RateWindow: time.Minute,
		},
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:3002").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
