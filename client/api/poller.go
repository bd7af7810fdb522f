package api

import (
	"context"
	"log"
	"sync"
	"time"
)

// pollInterval: kanal listesi yoklama aralığı. Occupancy push ile değil
// poll ile gelir — 5 saniye, lobi ekranı için yeterince taze.
const pollInterval = 5 * time.Second

// ChannelPoller, kanal listesini periyodik olarak yoklar ve son BAŞARILI
// sonucu saklar.
//
// Başarısız bir yoklama listeyi SİLMEZ — son bilinen liste gösterilmeye
// devam eder (geçici ağ kesintisinde lobi boşalmasın). Refresh() ile
// beklemeden taze çekim tetiklenebilir (bağlan/ayrıl sonrası).
type ChannelPoller struct {
	client *Client

	mu       sync.RWMutex
	channels []Channel

	onUpdate func([]Channel)
	refresh  chan struct{}
}

// NewChannelPoller, constructor. onUpdate nil olabilir; değilse her başarılı
// yoklamada poller goroutine'inden çağrılır.
func NewChannelPoller(client *Client, onUpdate func([]Channel)) *ChannelPoller {
	return &ChannelPoller{
		client:   client,
		onUpdate: onUpdate,
		refresh:  make(chan struct{}, 1),
	}
}

// Channels, son başarılı yoklamanın sonucunu döner (kopya).
func (p *ChannelPoller) Channels() []Channel {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Channel, len(p.channels))
	copy(out, p.channels)
	return out
}

// Refresh, bir sonraki tick'i beklemeden yoklama tetikler.
// Kanala bağlanınca / ayrılınca çağrılır — kullanıcı kendi etkisini
// listede hemen görür. Bekleyen bir tetik varsa no-op (coalesce).
func (p *ChannelPoller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Run, yoklama döngüsünü çalıştırır; ctx iptaline kadar bloklar.
// Kendi goroutine'inde çağrılmalıdır: go poller.Run(ctx)
func (p *ChannelPoller) Run(ctx context.Context) {
	p.poll(ctx) // İlk liste için tick bekleme

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		case <-p.refresh:
			p.poll(ctx)
		}
	}
}

func (p *ChannelPoller) poll(ctx context.Context) {
	channels, err := p.client.ListChannels(ctx)
	if err != nil {
		// Son bilinen liste korunur.
		log.Printf("[poller] channel list fetch failed: %v", err)
		return
	}

	p.mu.Lock()
	p.channels = channels
	p.mu.Unlock()

	if p.onUpdate != nil {
		p.onUpdate(channels)
	}
}
