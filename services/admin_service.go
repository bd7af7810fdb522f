// Package services — AdminService: operator control plane.
//
// Admin işlemleri son kullanıcı PIN'inden TAMAMEN ayrı bir secret ile
// korunur ve kendi rate limiter instance'ını kullanır. Secret environment'ta
// yapılandırılmamışsa her admin işlemi 503 ile kapalı kalır (fail closed) —
// güvensiz bir varsayılan bypass YOKTUR.
//
// İki tür yetenek:
// 1. Policy mutasyonu (change-pin, invalidate-tokens) → PolicyService'e
//    funnel edilir; secret rotasyonu uçuştaki tüm access token'ları öldürür.
// 2. SFU müdahalesi (kick-all) → RoomDirectory üzerinden, best-effort.
package services

import (
	"context"
	"fmt"
	"log"

	"github.com/gamerscream/gamerscream/config"
	"github.com/gamerscream/gamerscream/pkg"
	"github.com/gamerscream/gamerscream/pkg/crypto"
	"github.com/gamerscream/gamerscream/pkg/ratelimit"
	"github.com/gamerscream/gamerscream/repository"
)

// minPinLen, admin'in belirleyebileceği en kısa uygulama PIN'i.
const minPinLen = 4

// AdminService, operator işlemleri interface'i.
//
// Her metot önce gate'ten geçer: yapılandırma kontrolü → rate limit →
// timing-safe secret karşılaştırması. Sıra önemli: limit, secret
// brute-force'unu yavaşlatmak için secret kontrolünden ÖNCE gelir.
type AdminService interface {
	// Verify, secret'ı sınar — client admin UI'ı göstermeden önce çağırır.
	Verify(ip, secret string) error

	// ChangePin, uygulama PIN'ini değiştirir ve signing secret'ı döndürür.
	// Etki: tüm kullanıcılar logout olur, yeni PIN ile girmek zorundadır.
	ChangePin(ctx context.Context, ip, secret, newPin string) error

	// InvalidateTokens, sadece signing secret'ı döndürür (PIN aynı kalır).
	InvalidateTokens(ctx context.Context, ip, secret string) error

	// KickAll, tüm canlı odalardaki tüm katılımcıları atar ve başarıyla
	// atılan sayıyı döner. Tekil removal hataları işlemi durdurmaz.
	KickAll(ctx context.Context, ip, secret string) (int, error)
}

// adminService, AdminService'in concrete implementasyonu.
type adminService struct {
	secret  string // Boş = admin paneli devre dışı
	limiter *ratelimit.Limiter
	policy  PolicyService
	rooms   repository.RoomDirectory
}

// NewAdminService, constructor.
// limiter, admin'e ÖZEL instance'tır (PIN limiter'ından bağımsız —
// biri diğerinin deneme hakkını tüketemez).
func NewAdminService(
	cfg config.AdminConfig,
	limiter *ratelimit.Limiter,
	policy PolicyService,
	rooms repository.RoomDirectory,
) AdminService {
	if cfg.Secret == "" {
		log.Println("[admin] ADMIN_SECRET not set — admin panel disabled")
	}
	return &adminService{
		secret:  cfg.Secret,
		limiter: limiter,
		policy:  policy,
		rooms:   rooms,
	}
}

func (s *adminService) Verify(ip, secret string) error {
	return s.authorize(ip, secret)
}

func (s *adminService) ChangePin(ctx context.Context, ip, secret, newPin string) error {
	if err := s.authorize(ip, secret); err != nil {
		return err
	}

	if len(newPin) < minPinLen {
		return fmt.Errorf("%w: PIN must be at least %d characters", pkg.ErrBadRequest, minPinLen)
	}

	if err := s.policy.SetPinAndRotate(ctx, newPin); err != nil {
		return err
	}

	log.Println("[admin] PIN changed and all tokens invalidated")
	return nil
}

func (s *adminService) InvalidateTokens(ctx context.Context, ip, secret string) error {
	if err := s.authorize(ip, secret); err != nil {
		return err
	}

	if err := s.policy.RotateSecret(ctx); err != nil {
		return err
	}

	log.Println("[admin] all access tokens invalidated")
	return nil
}

func (s *adminService) KickAll(ctx context.Context, ip, secret string) (int, error) {
	if err := s.authorize(ip, secret); err != nil {
		return 0, err
	}

	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to list rooms", pkg.ErrInternal)
	}

	// Best-effort: tek bir removal hatası kalanları iptal etmez.
	// Sayaç sadece başarılı removal'ları sayar.
	kicked := 0
	for _, room := range rooms {
		participants, err := s.rooms.ListParticipants(ctx, room.Name)
		if err != nil {
			log.Printf("[admin] kick-all: failed to list participants in %s: %v", room.Name, err)
			continue
		}

		for _, p := range participants {
			if err := s.rooms.RemoveParticipant(ctx, room.Name, p.Identity); err != nil {
				log.Printf("[admin] kick-all: failed to remove %s from %s: %v", p.Identity, room.Name, err)
				continue
			}
			kicked++
		}
	}

	log.Printf("[admin] kicked %d participant(s) from all rooms", kicked)
	return kicked, nil
}

// authorize, admin gate'i: yapılandırma → rate limit → secret.
func (s *adminService) authorize(ip, secret string) error {
	if s.secret == "" {
		return fmt.Errorf("%w: admin panel not configured", pkg.ErrUnavailable)
	}

	if !s.limiter.Allow(ip) {
		return fmt.Errorf("%w: too many attempts, try again later", pkg.ErrRateLimited)
	}

	if secret == "" || !crypto.SecureCompare(secret, s.secret) {
		return fmt.Errorf("%w: invalid admin secret", pkg.ErrForbidden)
	}

	return nil
}
