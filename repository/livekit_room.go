package repository

import (
	"context"
	"fmt"

	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"

	"github.com/gamerscream/gamerscream/config"
	"github.com/gamerscream/gamerscream/models"
)

// livekitRoomDirectory, RoomDirectory'nin LiveKit RoomService implementasyonu.
//
// RoomServiceClient, LiveKit'in Twirp tabanlı management API client'ıdır;
// her çağrı API key/secret ile imzalanmış bir HTTP isteğidir.
// SDK tipleri (livekit.Room, livekit.ParticipantInfo) bu katmanda
// models tiplerine çevrilir — service katmanı SDK'yı hiç görmez.
type livekitRoomDirectory struct {
	client *lksdk.RoomServiceClient
}

// NewLiveKitRoomDirectory, constructor — interface döner.
func NewLiveKitRoomDirectory(cfg config.LiveKitConfig) RoomDirectory {
	return &livekitRoomDirectory{
		client: lksdk.NewRoomServiceClient(cfg.HTTPURL, cfg.APIKey, cfg.APISecret),
	}
}

func (d *livekitRoomDirectory) ListRooms(ctx context.Context) ([]models.RoomInfo, error) {
	resp, err := d.client.ListRooms(ctx, &livekit.ListRoomsRequest{})
	if err != nil {
		return nil, fmt.Errorf("livekit list rooms: %w", err)
	}

	rooms := make([]models.RoomInfo, 0, len(resp.Rooms))
	for _, room := range resp.Rooms {
		rooms = append(rooms, models.RoomInfo{
			Name:            room.Name,
			NumParticipants: int(room.NumParticipants),
		})
	}
	return rooms, nil
}

func (d *livekitRoomDirectory) ListParticipants(ctx context.Context, roomName string) ([]models.ParticipantInfo, error) {
	resp, err := d.client.ListParticipants(ctx, &livekit.ListParticipantsRequest{
		Room: roomName,
	})
	if err != nil {
		return nil, fmt.Errorf("livekit list participants (%s): %w", roomName, err)
	}

	participants := make([]models.ParticipantInfo, 0, len(resp.Participants))
	for _, p := range resp.Participants {
		participants = append(participants, models.ParticipantInfo{
			Identity: p.Identity,
			Name:     p.Name,
		})
	}
	return participants, nil
}

func (d *livekitRoomDirectory) RemoveParticipant(ctx context.Context, roomName, identity string) error {
	_, err := d.client.RemoveParticipant(ctx, &livekit.RoomParticipantIdentity{
		Room:     roomName,
		Identity: identity,
	})
	if err != nil {
		return fmt.Errorf("livekit remove participant (%s/%s): %w", roomName, identity, err)
	}
	return nil
}
