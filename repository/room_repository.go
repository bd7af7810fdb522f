package repository

import (
	"context"

	"github.com/gamerscream/gamerscream/models"
)

// RoomDirectory, SFU'nun (LiveKit) management API'sini soyutlar.
//
// Bu subsystem ses taşımaz — SFU'ya sadece üç soru sorar:
// hangi odalar canlı, odada kimler var, şu katılımcıyı at.
// Occupancy verisi hem /api/rooms listesini zenginleştirir hem de
// boş custom kanalların garbage collection tetiğidir.
//
// Çağrılar network üzerindendir: her biri bağımsız olarak başarısız
// olabilir veya timeout'a düşebilir. Caller'lar buna göre davranır
// (kanal listesi occupancy'siz de döner, kick-all best-effort devam eder).
type RoomDirectory interface {
	// ListRooms, canlı odaları katılımcı sayılarıyla döner.
	ListRooms(ctx context.Context) ([]models.RoomInfo, error)

	// ListParticipants, bir odadaki katılımcıları döner.
	ListParticipants(ctx context.Context, roomName string) ([]models.ParticipantInfo, error)

	// RemoveParticipant, bir katılımcıyı odadan zorla çıkarır.
	RemoveParticipant(ctx context.Context, roomName, identity string) error
}
