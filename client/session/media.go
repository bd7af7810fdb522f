// Package session, client tarafı ses oturumu durum makinesidir.
//
// Medya taşıma katmanı (SFU client'ı) burada SADECE interface olarak
// görünür: Engine hiçbir SFU SDK'sını import etmez. Production'da bu
// interface'ler LiveKit client SDK'sını saran ince bir binding ile
// doldurulur; testlerde fake implementasyonlar kullanılır.
//
// Bu ayrımın nedeni: engine'in tüm davranışı (state machine, player
// listesi reconciliation, volume kalıcılığı) SDK olmadan test edilebilir.
package session

import "context"

// Connector, yeni bir SFU oturumu açar.
type Connector interface {
	// Connect, verilen adrese token ile bağlanır ve canlı oturumu döner.
	// hooks, oturum yaşadığı sürece event'lerle çağrılır — implementasyon
	// hooks'u kendi goroutine'lerinden çağırabilir, Engine senkronizasyonu
	// kendisi yapar.
	Connect(ctx context.Context, url, token string, hooks *EventHooks) (Session, error)
}

// Session, canlı bir SFU bağlantısıdır.
type Session interface {
	// LocalIdentity, server'ın verdiği benzersiz kimliktir
	// ("<username>-<suffix>").
	LocalIdentity() string

	// Participants, oturumdaki UZAK katılımcıların o anki kümesini döner.
	// Her çağrı güncel snapshot'tır — Engine her event'te bunu yeniden okur.
	Participants() []RemoteParticipant

	// SetMicrophoneEnabled, yerel mikrofonu açar/kapatır.
	SetMicrophoneEnabled(enabled bool) error

	// Disconnect, oturumu kapatır. Birden fazla çağrı güvenlidir.
	Disconnect()
}

// RemoteParticipant, oturumdaki uzak bir katılımcıdır.
type RemoteParticipant interface {
	Identity() string
	Name() string

	// Metadata, join credential'ına gömülen JSON'dır ({"deviceId": ...}).
	// Boş olabilir (eski client'lar).
	Metadata() string

	IsSpeaking() bool

	// IsMuted, katılımcının ses yayınının kapalı olup olmadığını döner
	// (yayın yok veya mute edilmiş).
	IsMuted() bool

	// AudioOutput, katılımcının ses çıkışını döner. Track henüz
	// subscribe edilmediyse nil olabilir — caller kontrol etmelidir.
	AudioOutput() AudioOutput
}

// AudioOutput, bir katılımcının yerel ses çıkış kazancıdır.
type AudioOutput interface {
	// SetVolume, kazancı ayarlar: 0.0 sessiz, 1.0 tam ses.
	SetVolume(gain float64)
}

// EventHooks, taşıma katmanının Engine'e bildirdiği event'ler.
// nil alan çağrılmaz.
type EventHooks struct {
	OnParticipantConnected    func(p RemoteParticipant)
	OnParticipantDisconnected func(p RemoteParticipant)
	OnTrackSubscribed         func(p RemoteParticipant)
	OnTrackUnsubscribed       func(p RemoteParticipant)
	OnTrackMuted              func(p RemoteParticipant)
	OnActiveSpeakersChanged   func()
	OnDisconnected            func()
}
