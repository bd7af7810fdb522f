package models

import "time"

// DefaultChannelCount, sabit kanal sayısı (ch-1 .. ch-5).
// Default kanallar her zaman vardır, PIN korumaları yoktur ve silinmezler.
const DefaultChannelCount = 5

// CustomChannel, kullanıcı tarafından oluşturulan geçici bir kanaldır.
//
// Sahiplik: custom kanal set'inin TEK sahibi ChannelService'tir —
// başka hiçbir bileşen bu map'i mutate etmez.
//
// Yaşam döngüsü: authorized bir "create channel" isteğiyle doğar;
// SFU sıfır katılımcı raporladığında VE oluşturulmasından bu yana
// grace period geçtiğinde otomatik silinir. Grace period, kanalı
// oluşturan kişi daha odaya katılamadan kanalın silinmesi race'ini önler.
type CustomChannel struct {
	Name      string    // Görünen ad
	RoomName  string    // SFU oda adı: "custom-<millis>-<rand>" — tahmin edilemez
	Pin       string    // Opsiyonel 1-4 haneli PIN ("" = korumasız)
	CreatedBy string    // Oluşturan kullanıcının görünen adı
	CreatedAt time.Time
}

// HasPin, kanalın PIN korumalı olup olmadığını döner.
func (c *CustomChannel) HasPin() bool {
	return c.Pin != ""
}

// ChannelDescriptor, /api/rooms yanıtındaki tek bir kanal satırı.
// Default ve custom kanallar aynı listede döner; PIN'in kendisi ASLA
// client'a gönderilmez, sadece hasPin bayrağı gider.
type ChannelDescriptor struct {
	Channel     int    `json:"channel,omitempty"` // Default kanal indeksi (1-5), custom'da 0
	Name        string `json:"name"`
	RoomName    string `json:"roomName,omitempty"` // Custom kanalda bağlanılacak gerçek oda adı
	PlayerCount int    `json:"playerCount"`
	HasPin      bool   `json:"hasPin,omitempty"`
	IsCustom    bool   `json:"isCustom,omitempty"`
	CreatedBy   string `json:"createdBy,omitempty"`
}

// CreateChannelRequest — POST /api/channels body'si.
type CreateChannelRequest struct {
	Name      string `json:"name"`
	Pin       string `json:"pin,omitempty"`
	CreatedBy string `json:"createdBy"`
}

// CreateChannelResponse, oluşturulan kanalın public görünümü.
type CreateChannelResponse struct {
	Name     string `json:"name"`
	RoomName string `json:"roomName"`
	HasPin   bool   `json:"hasPin"`
}

// VerifyChannelPinRequest — POST /api/channels/verify-pin body'si.
type VerifyChannelPinRequest struct {
	RoomName string `json:"roomName"`
	Pin      string `json:"pin"`
}

// VerifyChannelPinResponse — PIN eşleşmesi sonucu.
type VerifyChannelPinResponse struct {
	Valid bool `json:"valid"`
}

// RoomListResponse — GET /api/rooms yanıtı.
type RoomListResponse struct {
	Rooms []ChannelDescriptor `json:"rooms"`
}
