package services

import (
	"context"
	"sync"

	"github.com/gamerscream/gamerscream/models"
	"github.com/gamerscream/gamerscream/pkg"
)

// Test fake'leri — hepsi aynı pakette, tüm service testleri paylaşır.

// fakePolicy, PolicyService'in mutasyonsuz testler için fake'i.
// Secret'ı elle değiştirerek rotasyon etkisi simüle edilir.
type fakePolicy struct {
	mu     sync.RWMutex
	pin    string
	secret string
}

func (f *fakePolicy) CurrentPin() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.pin
}

func (f *fakePolicy) CurrentSecret() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.secret
}

func (f *fakePolicy) RotateSecret(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.secret = f.secret + "-rotated"
	return nil
}

func (f *fakePolicy) SetPinAndRotate(_ context.Context, newPin string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pin = newPin
	f.secret = f.secret + "-rotated"
	return nil
}

// memPolicyRepo, repository.PolicyRepository'nin in-memory fake'i.
type memPolicyRepo struct {
	mu      sync.Mutex
	policy  *models.AppPolicy
	saveErr error
	saves   int
}

func (r *memPolicyRepo) Get(context.Context) (*models.AppPolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.policy == nil {
		return nil, pkg.ErrNotFound
	}
	copied := *r.policy
	return &copied, nil
}

func (r *memPolicyRepo) Save(_ context.Context, policy *models.AppPolicy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	copied := *policy
	r.policy = &copied
	r.saves++
	return nil
}

// fakeRoomDirectory, repository.RoomDirectory'nin test fake'i.
// counts: oda adı → katılımcı sayısı. listErr set edilirse ListRooms düşer.
type fakeRoomDirectory struct {
	mu           sync.Mutex
	counts       map[string]int
	participants map[string][]models.ParticipantInfo
	listErr      error
	removeErr    map[string]error // identity → hata
	removed      []string
}

func (d *fakeRoomDirectory) ListRooms(context.Context) ([]models.RoomInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listErr != nil {
		return nil, d.listErr
	}
	rooms := make([]models.RoomInfo, 0, len(d.counts))
	for name, count := range d.counts {
		rooms = append(rooms, models.RoomInfo{Name: name, NumParticipants: count})
	}
	return rooms, nil
}

func (d *fakeRoomDirectory) ListParticipants(_ context.Context, roomName string) ([]models.ParticipantInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.participants[roomName], nil
}

func (d *fakeRoomDirectory) RemoveParticipant(_ context.Context, roomName, identity string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.removeErr[identity]; err != nil {
		return err
	}
	d.removed = append(d.removed, roomName+"/"+identity)
	return nil
}
