package session

import (
	"context"
	"fmt"
	"sync"
)

// Fake medya taşıma katmanı — engine testleri SDK olmadan koşar.

type fakeOutput struct {
	mu   sync.Mutex
	gain float64
	set  bool
}

func (o *fakeOutput) SetVolume(gain float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.gain = gain
	o.set = true
}

func (o *fakeOutput) Gain() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.gain
}

type fakeParticipant struct {
	identity string
	name     string
	metadata string
	speaking bool
	muted    bool
	out      *fakeOutput
}

func newFakeParticipant(identity, name, deviceID string) *fakeParticipant {
	metadata := ""
	if deviceID != "" {
		metadata = fmt.Sprintf(`{"deviceId":%q}`, deviceID)
	}
	return &fakeParticipant{
		identity: identity,
		name:     name,
		metadata: metadata,
		out:      &fakeOutput{},
	}
}

func (p *fakeParticipant) Identity() string         { return p.identity }
func (p *fakeParticipant) Name() string             { return p.name }
func (p *fakeParticipant) Metadata() string         { return p.metadata }
func (p *fakeParticipant) IsSpeaking() bool         { return p.speaking }
func (p *fakeParticipant) IsMuted() bool            { return p.muted }
func (p *fakeParticipant) AudioOutput() AudioOutput { return p.out }

type fakeSession struct {
	mu           sync.Mutex
	local        string
	parts        []*fakeParticipant
	micEnabled   bool
	disconnected bool
}

func (s *fakeSession) LocalIdentity() string { return s.local }

func (s *fakeSession) Participants() []RemoteParticipant {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RemoteParticipant, len(s.parts))
	for i, p := range s.parts {
		out[i] = p
	}
	return out
}

func (s *fakeSession) SetMicrophoneEnabled(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.micEnabled = enabled
	return nil
}

func (s *fakeSession) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnected = true
}

func (s *fakeSession) isDisconnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disconnected
}

func (s *fakeSession) addParticipant(p *fakeParticipant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parts = append(s.parts, p)
}

func (s *fakeSession) removeParticipant(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.parts[:0]
	for _, p := range s.parts {
		if p.identity != identity {
			kept = append(kept, p)
		}
	}
	s.parts = kept
}

// fakeConnector, her Connect çağrısında sessions kuyruğundan sıradaki
// oturumu döner ve hook'ları yakalar. blockNext set edilirse bir sonraki
// Connect, kanal kapanana kadar bloklar (yarış testleri için).
type fakeConnector struct {
	mu        sync.Mutex
	sessions  []*fakeSession
	hooks     []*EventHooks
	calls     int
	err       error
	blockNext chan struct{}
}

func (c *fakeConnector) Connect(_ context.Context, _, _ string, hooks *EventHooks) (Session, error) {
	// Oturum eşleşmesi ÇAĞRI sırasına göredir (tamamlanma sırasına değil) —
	// bloklanan ilk Connect, kuyruktaki ilk oturumu alır.
	c.mu.Lock()
	idx := c.calls
	c.calls++
	block := c.blockNext
	c.blockNext = nil
	c.mu.Unlock()

	if block != nil {
		<-block
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return nil, c.err
	}

	if idx >= len(c.sessions) {
		idx = len(c.sessions) - 1
	}
	c.hooks = append(c.hooks, hooks)
	return c.sessions[idx], nil
}

func (c *fakeConnector) lastHooks() *EventHooks {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hooks[len(c.hooks)-1]
}
