// Package api, desktop client'ın backend ile konuştuğu HTTP katmanıdır.
//
// Sorumluluklar:
// 1. Access token saklama ve her korumalı isteğe X-Access-Token header'ı ekleme
// 2. Backend endpoint'lerinin tip güvenli sarmalayıcıları
// 3. Kanal listesini periyodik yoklama (bkz. poller.go)
// 4. Kalıcı cihaz kimliği (bkz. device.go)
//
// Bu paket UI içermez — sadece ağ + durum. Shell (Electron/Wails/ne olursa)
// bu paketi kullanır.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// AccessTokenHeader, server'ın beklediği header adı (middleware ile aynı).
const AccessTokenHeader = "X-Access-Token"

// requestTimeout: tüm API çağrıları için üst sınır. Backend yerel ağda veya
// yakın bir VPS'te — 10 saniyede cevap yoksa zaten bir şeyler ters gitmiştir.
const requestTimeout = 10 * time.Second

// Client, backend API client'ı.
//
// Access token mutex ile korunur: poller goroutine'i ile UI goroutine'i
// aynı anda istek atabilir.
type Client struct {
	baseURL string
	http    *http.Client

	mu          sync.RWMutex
	accessToken string
}

// New, yeni bir API client oluşturur.
// baseURL sonundaki "/" kırpılır — path birleştirmede çift slash olmasın.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// SetAccessToken, korumalı isteklerde kullanılacak token'ı ayarlar.
// Boş string token'ı temizler (logout).
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

// AccessToken, kayıtlı token'ı döner (persist etmek isteyen shell için).
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// VerifyAppPin, PIN'i doğrular ve başarıda dönen access token'ı hem kaydeder
// hem döner. 429'da hata mesajı server'ın verdiği bekleme süresini içerir.
func (c *Client) VerifyAppPin(ctx context.Context, pin string) (string, error) {
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	err := c.post(ctx, "/api/verify-app-pin", map[string]string{"pin": pin}, &resp)
	if err != nil {
		return "", err
	}

	c.SetAccessToken(resp.AccessToken)
	return resp.AccessToken, nil
}

// VerifyAccessToken, kayıtlı token'ın hâlâ geçerli olup olmadığını sorar.
// Dönen client açılışta bunu çağırır — geçerliyse PIN ekranı atlanır.
func (c *Client) VerifyAccessToken(ctx context.Context) (bool, error) {
	token := c.AccessToken()
	if token == "" {
		return false, nil
	}

	var resp struct {
		Valid bool `json:"valid"`
	}
	err := c.post(ctx, "/api/verify-access-token", map[string]string{"accessToken": token}, &resp)
	if err != nil {
		return false, err
	}
	return resp.Valid, nil
}

// JoinCredential, FetchJoinToken'ın sonucu.
type JoinCredential struct {
	Token      string `json:"token"`
	LiveKitURL string `json:"livekitUrl"`
}

// FetchJoinToken, istenen oda için SFU join credential'ı alır.
// pin sadece PIN korumalı custom kanallar için gerekir.
func (c *Client) FetchJoinToken(ctx context.Context, username, room, deviceID, pin string) (*JoinCredential, error) {
	body := map[string]string{
		"username": username,
		"room":     room,
		"deviceId": deviceID,
	}
	if pin != "" {
		body["pin"] = pin
	}

	var resp JoinCredential
	if err := c.post(ctx, "/api/token", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Channel, kanal listesindeki tek satır (server'ın döndüğü şekil).
type Channel struct {
	Channel     int    `json:"channel,omitempty"`
	Name        string `json:"name"`
	RoomName    string `json:"roomName,omitempty"`
	PlayerCount int    `json:"playerCount"`
	HasPin      bool   `json:"hasPin,omitempty"`
	IsCustom    bool   `json:"isCustom,omitempty"`
	CreatedBy   string `json:"createdBy,omitempty"`
}

// ConnectRoomName, bağlanırken kullanılacak gerçek oda adını döner:
// custom kanalda RoomName, default kanalda Name ("ch-N").
func (ch *Channel) ConnectRoomName() string {
	if ch.RoomName != "" {
		return ch.RoomName
	}
	return ch.Name
}

// ListChannels, default + custom kanalları occupancy ile döner.
func (c *Client) ListChannels(ctx context.Context) ([]Channel, error) {
	var resp struct {
		Rooms []Channel `json:"rooms"`
	}
	if err := c.get(ctx, "/api/rooms", &resp); err != nil {
		return nil, err
	}
	return resp.Rooms, nil
}

// CreatedChannel, CreateChannel'ın sonucu. PIN asla geri dönmez.
type CreatedChannel struct {
	Name     string `json:"name"`
	RoomName string `json:"roomName"`
	HasPin   bool   `json:"hasPin"`
}

// CreateChannel, yeni custom kanal oluşturur. pin boş olabilir.
func (c *Client) CreateChannel(ctx context.Context, name, pin, createdBy string) (*CreatedChannel, error) {
	var resp CreatedChannel
	err := c.post(ctx, "/api/channels", map[string]string{
		"name":      name,
		"pin":       pin,
		"createdBy": createdBy,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyChannelPin, kanala katılmadan ÖNCE PIN'i sınar (UX — yanlış PIN'le
// token isteyip reddedilmekten daha iyi bir akış). Asıl kapı server'dadır.
func (c *Client) VerifyChannelPin(ctx context.Context, roomName, pin string) (bool, error) {
	var resp struct {
		Valid bool `json:"valid"`
	}
	err := c.post(ctx, "/api/channels/verify-pin", map[string]string{
		"roomName": roomName,
		"pin":      pin,
	}, &resp)
	if err != nil {
		return false, err
	}
	return resp.Valid, nil
}

// APIError, server'ın {"error": "..."} yanıtını taşıyan hata tipi.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// post, JSON body ile POST atar ve yanıtı out'a decode eder.
func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// get, GET atar ve yanıtı out'a decode eder.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// do, access token header'ını ekler, isteği yürütür ve hata gövdelerini
// APIError'a çevirir.
func (c *Client) do(req *http.Request, out any) error {
	if token := c.AccessToken(); token != "" {
		req.Header.Set(AccessTokenHeader, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errBody struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
