// Package ratelimit — brute-force saldırılarına karşı IP bazlı deneme limiti.
//
// Tasarım:
// - Her client IP'si için {count, lastAttempt} tutulur.
// - Son denemeden bu yana window süresi geçtiyse sayaç sıfırlanır.
// - Sayaç ceiling'e ulaştıysa istek reddedilir.
// - Background goroutine ile idle entry'ler temizlenir (memory leak engeli).
//
// Bu gerçek bir sliding window DEĞİL, sabit bir leaky counter —
// "dakikada kabaca N deneme" hassasiyeti PIN brute-force'u için yeterli.
//
// Neden in-memory?
// - SQLite'a her request'te yazma gereksiz I/O + contention yaratır.
// - Redis bağımlılığı eklememek için in-memory yeterli (tek instance deploy).
// - sync.Mutex ile thread-safe.
//
// Neden ayrı paket?
// handlers ↔ middleware arasında import cycle oluşmaması için
// rate limiter bağımsız bir paket olarak konumlandırıldı.
// pkg/ratelimit hiçbir proje içi pakete bağımlı değildir (leaf dependency).
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// entry, bir client için deneme sayacı ve son deneme zamanı tutar.
//
// lastAttempt yalnızca KABUL EDİLEN denemelerde güncellenir: reddedilen
// istekler pencereyi uzatmaz, böylece meşru kullanıcı window dolunca
// tekrar deneme hakkı kazanır (reddedilişler cezayı sonsuza taşımaz).
type entry struct {
	count       int
	lastAttempt time.Time
}

// Limiter, client başına deneme limiti uygular.
//
// Her korunan endpoint ailesi KENDİ Limiter instance'ını kullanır —
// PIN doğrulama ile admin işlemleri ayrı sayaçlarda tutulur ki
// biri diğerinin hakkını tüketmesin.
//
// Kullanım:
//
//	limiter := ratelimit.New(5, time.Minute)
//	if !limiter.Allow(ip) { return 429 }
type Limiter struct {
	mu          sync.Mutex
	entries     map[string]*entry
	maxAttempts int
	window      time.Duration
	stopCleanup chan struct{}
}

// cleanupInterval, idle entry sweep'inin çalışma sıklığı.
// Window'dan çok daha uzun — sweep sadece belleği sınırlamak için var,
// doğruluk Allow içindeki window kontrolünden gelir.
const cleanupInterval = time.Hour

// New, yeni bir Limiter oluşturur ve arka plan temizleme goroutine'ini başlatır.
//
// maxAttempts: pencere başına izin verilen deneme (ör: 5).
// window: pencere süresi (ör: time.Minute → dakikada 5 deneme).
func New(maxAttempts int, window time.Duration) *Limiter {
	l := &Limiter{
		entries:     make(map[string]*entry),
		maxAttempts: maxAttempts,
		window:      window,
		stopCleanup: make(chan struct{}),
	}

	go l.cleanupLoop()

	return l
}

// Allow, verilen key'in (client IP) yeni bir denemesine izin verilip
// verilmediğini döner.
//
// true: istek kabul edildi, sayaç artırıldı.
// false: ceiling'e ulaşıldı → caller 429 dönmeli.
//
// İlk istek veya son denemeden bu yana window geçmişse sayaç 1'e döner.
func (l *Limiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, exists := l.entries[key]
	if !exists || now.Sub(e.lastAttempt) > l.window {
		l.entries[key] = &entry{count: 1, lastAttempt: now}
		return true
	}

	if e.count >= l.maxAttempts {
		return false
	}

	e.count++
	e.lastAttempt = now
	return true
}

// RetryAfterSeconds, limit aşıldığında kalan bekleme süresini saniye
// cinsinden döner. HTTP Retry-After header değeri olarak kullanılır.
func (l *Limiter) RetryAfterSeconds(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, exists := l.entries[key]
	if !exists {
		return 0
	}

	remaining := l.window - time.Since(e.lastAttempt)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1 // +1 yuvarlama — client'ın tam süreyi beklemesi için
}

// Close, arka plan temizleme goroutine'ini durdurur.
func (l *Limiter) Close() {
	close(l.stopCleanup)
}

// cleanupLoop, arka planda idle entry'leri temizler.
func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCleanup:
			return
		}
	}
}

// cleanup, son denemesi window'dan eski tüm entry'leri siler.
// Silinen entry'ler zaten Allow tarafından sıfırlanacak durumdaydı —
// sweep ile request handling'in çakışması sonucu değiştirmez.
func (l *Limiter) cleanup() {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, e := range l.entries {
		if now.Sub(e.lastAttempt) > l.window {
			delete(l.entries, key)
		}
	}
}

// ExtractIP, HTTP request'ten client IP adresini çıkarır.
//
// Öncelik sırası:
// 1. X-Forwarded-For header (reverse proxy arkasındaysa, ilk IP)
// 2. X-Real-IP header (nginx gibi proxy'ler ekler)
// 3. RemoteAddr (doğrudan bağlantı)
func ExtractIP(r *http.Request) string {
	// X-Forwarded-For: client, proxy1, proxy2 — ilk değer gerçek client
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// FormatRetryMessage, kalan süreyi okunabilir formata çevirir.
// Örn: "120" → "2 minute(s)", "45" → "45 second(s)"
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", seconds/60)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}
