package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// State, engine'in bağlantı durumu.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "idle"
	}
}

// Player, UI'ın gösterdiği katılımcı satırı.
// Her event'te liste SIFIRDAN yeniden kurulur — artımlı patch yok,
// kaçırılan bir event listede kalıcı tutarsızlık bırakamaz.
type Player struct {
	Identity   string
	Name       string
	DeviceID   string
	IsLocal    bool
	IsSpeaking bool
	IsMuted    bool
	Volume     int // 0-100; yerel katılımcı için her zaman 100
}

// Callbacks, engine'in shell'e bildirdiği olaylar. nil alan çağrılmaz.
// Hepsi mutex TUTULMADAN çağrılır — callback içinden engine metodu
// çağırmak güvenlidir.
type Callbacks struct {
	// OnPlayersChanged, listenin her yeniden kuruluşunda güncel listeyle çağrılır.
	OnPlayersChanged func(players []Player)

	// OnStateChanged, Idle/Connecting/Connected geçişlerinde çağrılır.
	OnStateChanged func(state State)

	// OnParticipantJoined / OnParticipantLeft, uzak bir katılımcı girip
	// çıktığında görünen adla çağrılır (bildirim sesi / OS notification
	// buradan beslenir; shell'in işi, engine sadece haber verir).
	OnParticipantJoined func(name string)
	OnParticipantLeft   func(name string)
}

// Engine, ses oturumu durum makinesi.
//
// Tek oturum kuralı: aynı anda en fazla bir canlı Session vardır. Yeni bir
// Connect önce mevcut oturumu kapatır. Generation sayacı, araya giren
// Connect/Disconnect'lerden sonra tamamlanan BAYAT işlemlerin (geç gelen
// connect sonucu, eski oturumun event'leri) state'i bozmasını engeller:
// her kritik işlem başladığı generation'ı taşır, uygulanmadan önce hâlâ
// güncel mi diye bakılır.
type Engine struct {
	connector Connector
	volumes   *VolumeStore
	callbacks Callbacks

	mu         sync.Mutex
	state      State
	generation uint64
	session    Session

	localName  string
	micEnabled bool

	// Herkesi sustur durumu: preMuteVolumes, mute anındaki seslerin
	// snapshot'ı — ikinci toggle bunları geri yükler.
	allMuted       bool
	preMuteVolumes map[string]int

	players []Player
}

// NewEngine, constructor.
func NewEngine(connector Connector, volumes *VolumeStore, callbacks Callbacks) *Engine {
	return &Engine{
		connector: connector,
		volumes:   volumes,
		callbacks: callbacks,
		state:     StateIdle,
	}
}

// State, o anki bağlantı durumunu döner.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Players, o anki katılımcı listesini döner (kopya).
func (e *Engine) Players() []Player {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Player, len(e.players))
	copy(out, e.players)
	return out
}

// Connect, verilen SFU adresine token ile bağlanır.
//
// Canlı bir oturum varsa ÖNCE kapatılır (tek oturum kuralı). Bağlantı
// sürerken ikinci bir Connect gelirse generation değişir ve ilk bağlantı
// tamamlandığında sonucu sessizce atılır — "hangi kanala tıkladıysam
// ona bağlanırım" garantisi.
func (e *Engine) Connect(ctx context.Context, url, token, localName string) error {
	e.mu.Lock()

	if e.session != nil {
		e.session.Disconnect()
		e.session = nil
	}

	e.generation++
	gen := e.generation
	e.localName = localName
	e.allMuted = false
	e.preMuteVolumes = nil
	changed := e.setStateLocked(StateConnecting)
	e.mu.Unlock()

	if changed {
		e.notifyState(StateConnecting)
	}

	hooks := e.buildHooks(gen)

	// Bloklayan bağlantı mutex DIŞINDA — Disconnect/ikinci Connect
	// bu sırada engine'i kullanabilmeli.
	sess, err := e.connector.Connect(ctx, url, token, hooks)

	e.mu.Lock()
	if gen != e.generation {
		// Bu bağlantı beklenirken başka bir Connect/Disconnect geldi.
		e.mu.Unlock()
		if sess != nil {
			sess.Disconnect()
		}
		return nil
	}

	if err != nil {
		changed = e.setStateLocked(StateIdle)
		e.mu.Unlock()
		if changed {
			e.notifyState(StateIdle)
		}
		return fmt.Errorf("failed to connect: %w", err)
	}

	e.session = sess
	e.micEnabled = true
	changed = e.setStateLocked(StateConnected)
	snapshot := e.rebuildLocked()
	e.mu.Unlock()

	if changed {
		e.notifyState(StateConnected)
	}
	e.notifyPlayers(snapshot)
	return nil
}

// Disconnect, oturumu kapatır. Oturum yoksa no-op (idempotent).
// Otomatik yeniden bağlanma YOKTUR — kopuş Idle'a düşürür, karar shell'in.
func (e *Engine) Disconnect() {
	e.mu.Lock()

	if e.session == nil && e.state == StateIdle {
		e.mu.Unlock()
		return
	}

	// Generation artışı uçuştaki connect'i ve eski oturumun geç gelen
	// event'lerini geçersiz kılar.
	e.generation++

	if e.session != nil {
		e.session.Disconnect()
		e.session = nil
	}

	e.allMuted = false
	e.preMuteVolumes = nil
	e.players = nil
	changed := e.setStateLocked(StateIdle)
	e.mu.Unlock()

	if changed {
		e.notifyState(StateIdle)
	}
	e.notifyPlayers(nil)
}

// SetVolume, uzak bir katılımcının sesini ayarlar (0-100).
//
// Üç etki: canlı kazanç hemen değişir, tercih diske yazılır (write-through),
// liste yeniden kurulur. Tercih anahtarı deviceId'dir — aynı cihaz başka
// kanala girdiğinde ayar geri gelir.
func (e *Engine) SetVolume(identity string, volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}

	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return
	}

	for _, p := range e.session.Participants() {
		if p.Identity() != identity {
			continue
		}

		key := volumeKey(p)
		e.volumes.Set(key, volume)

		// Herkesi-sustur aktifken canlı kazanç 0'da kalır; yeni değer
		// persist edilir ve unmute snapshot'ına da işlenir ki geri açışta
		// eski snapshot değil bu tercih uygulansın.
		if e.allMuted {
			e.preMuteVolumes[key] = volume
		} else if out := p.AudioOutput(); out != nil {
			out.SetVolume(float64(volume) / 100)
		}
		break
	}

	snapshot := e.rebuildLocked()
	e.mu.Unlock()

	e.notifyPlayers(snapshot)
}

// ToggleMuteAll, tüm uzak katılımcıları susturur / geri açar.
// Dönen değer yeni durumdur (true = herkes susturulmuş).
//
// Mute anında sesler snapshot'lanır; geri açışta snapshot'taki değer,
// snapshot'ta olmayanlar (mute sırasında katılanlar) için kayıtlı tercih
// (yoksa %100) uygulanır.
func (e *Engine) ToggleMuteAll() bool {
	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return false
	}

	if !e.allMuted {
		e.preMuteVolumes = make(map[string]int)
		for _, p := range e.session.Participants() {
			key := volumeKey(p)
			e.preMuteVolumes[key] = e.volumes.Get(key)
			if out := p.AudioOutput(); out != nil {
				out.SetVolume(0)
			}
		}
		e.allMuted = true
	} else {
		for _, p := range e.session.Participants() {
			key := volumeKey(p)
			volume, ok := e.preMuteVolumes[key]
			if !ok {
				volume = e.volumes.Get(key)
			}
			if out := p.AudioOutput(); out != nil {
				out.SetVolume(float64(volume) / 100)
			}
		}
		e.preMuteVolumes = nil
		e.allMuted = false
	}

	muted := e.allMuted
	snapshot := e.rebuildLocked()
	e.mu.Unlock()

	e.notifyPlayers(snapshot)
	return muted
}

// ToggleMute, yerel mikrofonu açar/kapatır. Dönen değer yeni mikrofon
// durumudur (true = açık).
func (e *Engine) ToggleMute() bool {
	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return false
	}

	e.micEnabled = !e.micEnabled
	if err := e.session.SetMicrophoneEnabled(e.micEnabled); err != nil {
		log.Printf("[session] failed to toggle microphone: %v", err)
	}

	enabled := e.micEnabled
	snapshot := e.rebuildLocked()
	e.mu.Unlock()

	e.notifyPlayers(snapshot)
	return enabled
}

// buildHooks, verilen generation'a bağlı event hook'ları üretir.
// Her hook uygulanmadan önce generation kontrol edilir — eski oturumun
// geç gelen event'i yeni oturumun listesini bozamaz.
func (e *Engine) buildHooks(gen uint64) *EventHooks {
	return &EventHooks{
		OnParticipantConnected: func(p RemoteParticipant) {
			e.onEvent(gen, func() {
				if cb := e.callbacks.OnParticipantJoined; cb != nil {
					cb(p.Name())
				}
			})
		},
		OnParticipantDisconnected: func(p RemoteParticipant) {
			e.onEvent(gen, func() {
				if cb := e.callbacks.OnParticipantLeft; cb != nil {
					cb(p.Name())
				}
			})
		},
		OnTrackSubscribed: func(p RemoteParticipant) {
			e.applyGain(gen, p)
		},
		OnTrackUnsubscribed: func(p RemoteParticipant) {
			e.onEvent(gen, nil)
		},
		OnTrackMuted: func(p RemoteParticipant) {
			e.onEvent(gen, nil)
		},
		OnActiveSpeakersChanged: func() {
			e.onEvent(gen, nil)
		},
		OnDisconnected: func() {
			e.onRemoteDisconnect(gen)
		},
	}
}

// onEvent, generation hâlâ güncelse listeyi yeniden kurar ve (varsa)
// ek callback'i tetikler.
func (e *Engine) onEvent(gen uint64, after func()) {
	e.mu.Lock()
	if gen != e.generation || e.session == nil {
		e.mu.Unlock()
		return
	}
	snapshot := e.rebuildLocked()
	e.mu.Unlock()

	e.notifyPlayers(snapshot)
	if after != nil {
		after()
	}
}

// applyGain, yeni subscribe edilen track'e kayıtlı sesi ANINDA uygular —
// kullanıcı %20'ye kıstığı kişiyi bir sonraki girişte önce %100 duymamalı.
func (e *Engine) applyGain(gen uint64, p RemoteParticipant) {
	e.mu.Lock()
	if gen != e.generation || e.session == nil {
		e.mu.Unlock()
		return
	}

	if out := p.AudioOutput(); out != nil {
		volume := e.volumes.Get(volumeKey(p))
		if e.allMuted {
			volume = 0
		}
		out.SetVolume(float64(volume) / 100)
	}

	snapshot := e.rebuildLocked()
	e.mu.Unlock()

	e.notifyPlayers(snapshot)
}

// onRemoteDisconnect, SFU tarafından koparıldığımızda (kick, server
// restart) state'i Idle'a düşürür. Yeniden bağlanmayı DENEMEZ.
func (e *Engine) onRemoteDisconnect(gen uint64) {
	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		return
	}

	e.session = nil
	e.allMuted = false
	e.preMuteVolumes = nil
	e.players = nil
	changed := e.setStateLocked(StateIdle)
	e.mu.Unlock()

	if changed {
		e.notifyState(StateIdle)
	}
	e.notifyPlayers(nil)
}

// rebuildLocked, player listesini oturumun O ANKİ katılımcı kümesinden
// sıfırdan kurar ve kopyasını döner. Caller lock tutar.
//
// Yerel katılımcı her zaman ilk sıradadır ve sesi sabit 100'dür
// (kendi sesini kısmak diye bir şey yok — mikrofon mute ayrı kavram).
func (e *Engine) rebuildLocked() []Player {
	if e.session == nil {
		e.players = nil
		return nil
	}

	players := []Player{{
		Identity: e.session.LocalIdentity(),
		Name:     e.localName,
		IsLocal:  true,
		IsMuted:  !e.micEnabled,
		Volume:   100,
	}}

	for _, p := range e.session.Participants() {
		key := volumeKey(p)
		volume := e.volumes.Get(key)
		if e.allMuted {
			volume = 0
		}

		players = append(players, Player{
			Identity:   p.Identity(),
			Name:       p.Name(),
			DeviceID:   deviceIDFromMetadata(p.Metadata()),
			IsSpeaking: p.IsSpeaking(),
			IsMuted:    p.IsMuted(),
			Volume:     volume,
		})
	}

	e.players = players

	out := make([]Player, len(players))
	copy(out, players)
	return out
}

// setStateLocked, state'i günceller ve değişip değişmediğini döner.
// Callback lock altında ÇAĞRILMAZ — caller, lock'u bıraktıktan sonra
// notifyState ile tetikler.
func (e *Engine) setStateLocked(state State) bool {
	if e.state == state {
		return false
	}
	e.state = state
	return true
}

func (e *Engine) notifyState(state State) {
	if cb := e.callbacks.OnStateChanged; cb != nil {
		cb(state)
	}
}

func (e *Engine) notifyPlayers(players []Player) {
	if cb := e.callbacks.OnPlayersChanged; cb != nil {
		cb(players)
	}
}

// volumeKey, ses tercihinin saklama anahtarını döner: metadata'daki
// deviceId, yoksa identity. deviceId tercih edilir çünkü identity her
// join'de değişebilir (rastgele suffix), deviceId cihazla yaşar.
func volumeKey(p RemoteParticipant) string {
	if id := deviceIDFromMetadata(p.Metadata()); id != "" {
		return id
	}
	return p.Identity()
}

// deviceIDFromMetadata, join credential metadata'sından deviceId'yi çıkarır.
// Metadata boş veya bozuksa "" döner — eski client'lar suçlanmaz.
func deviceIDFromMetadata(metadata string) string {
	if metadata == "" {
		return ""
	}
	var parsed struct {
		DeviceID string `json:"deviceId"`
	}
	if err := json.Unmarshal([]byte(metadata), &parsed); err != nil {
		return ""
	}
	return parsed.DeviceID
}
