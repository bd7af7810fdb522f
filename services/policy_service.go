// Package services, iş mantığı katmanıdır.
//
// Bu dosya: PolicyService — uygulama geneli erişim politikasının
// (PIN + token signing secret) TEK sahibi.
//
// Neden ayrı bir service?
// PIN ve secret iki yerden okunur (PIN kapısı, token doğrulama) ama tek
// yerden yazılır (admin control plane). Bu ikiliği ambient global değişken
// yerine explicit bir nesnede toplamak, "secret'ı döndür → tüm token'lar
// ölsün" mekanizmasını paylaşılan mutable state saçmadan korur:
// her doğrulama o anki canlı secret'ı görür, cache yoktur.
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/gamerscream/gamerscream/config"
	"github.com/gamerscream/gamerscream/models"
	"github.com/gamerscream/gamerscream/pkg"
	"github.com/gamerscream/gamerscream/repository"
)

// PolicyService, canlı AppPolicy'ye erişim ve mutasyon interface'i.
type PolicyService interface {
	// CurrentPin, o anki uygulama PIN'ini döner.
	CurrentPin() string

	// CurrentSecret, o anki token imza secret'ını döner.
	// Her token doğrulaması bu değeri ÇAĞRI ANINDA okumalıdır.
	CurrentSecret() string

	// RotateSecret, imza secret'ını taze rastgele bir değerle değiştirir
	// ve persist eder. Etkisi: daha önce verilmiş TÜM access token'lar
	// anında geçersiz olur.
	RotateSecret(ctx context.Context) error

	// SetPinAndRotate, PIN'i değiştirir VE secret'ı döndürür (tek adım).
	// Admin "change pin" budur — herkes yeni PIN ile tekrar girmek zorunda.
	SetPinAndRotate(ctx context.Context, newPin string) error
}

// policyService, PolicyService'in concrete implementasyonu.
type policyService struct {
	mu     sync.RWMutex
	policy models.AppPolicy

	repo repository.PolicyRepository
}

// NewPolicyService, kalıcı policy'yi yükleyerek service'i oluşturur.
//
// İlk açılışta (DB'de kayıt yokken) env varsayılanları seed edilir ve
// hemen persist edilir — böylece sonraki restart'lar her zaman DB'den okur.
func NewPolicyService(ctx context.Context, repo repository.PolicyRepository, cfg config.AccessConfig) (PolicyService, error) {
	s := &policyService{repo: repo}

	stored, err := repo.Get(ctx)
	switch {
	case err == nil:
		s.policy = *stored
		log.Println("[policy] loaded persisted policy state")
	case errors.Is(err, pkg.ErrNotFound):
		s.policy = models.AppPolicy{
			AppPin:        cfg.AppPin,
			SigningSecret: cfg.TokenSecret,
		}
		if err := repo.Save(ctx, &s.policy); err != nil {
			return nil, fmt.Errorf("failed to seed policy state: %w", err)
		}
		log.Println("[policy] seeded policy state from environment defaults")
	default:
		return nil, fmt.Errorf("failed to load policy state: %w", err)
	}

	return s, nil
}

func (s *policyService) CurrentPin() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy.AppPin
}

func (s *policyService) CurrentSecret() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy.SigningSecret
}

func (s *policyService) RotateSecret(ctx context.Context) error {
	return s.update(ctx, func(p *models.AppPolicy) error {
		secret, err := newSigningSecret()
		if err != nil {
			return err
		}
		p.SigningSecret = secret
		return nil
	})
}

func (s *policyService) SetPinAndRotate(ctx context.Context, newPin string) error {
	return s.update(ctx, func(p *models.AppPolicy) error {
		secret, err := newSigningSecret()
		if err != nil {
			return err
		}
		p.AppPin = newPin
		p.SigningSecret = secret
		return nil
	})
}

// update, mutasyonu lock altında uygular ve persist eder.
//
// Persist başarısız olursa in-memory değer de geri alınmaz DEĞİL —
// geri alınır: restart sonrası ile çalışan process'in farklı policy
// görmesi kabul edilemez. Yazma hatası caller'a döner, state değişmez.
func (s *policyService) update(ctx context.Context, mutate func(*models.AppPolicy) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := s.policy
	if err := mutate(&candidate); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, &candidate); err != nil {
		return fmt.Errorf("failed to persist policy state: %w", err)
	}

	s.policy = candidate
	return nil
}

// newSigningSecret, 32 byte kriptografik rastgelelikten hex secret üretir.
func newSigningSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate signing secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
