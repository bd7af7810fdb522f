package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gamerscream/gamerscream/models"
	"github.com/gamerscream/gamerscream/pkg"
	"github.com/gamerscream/gamerscream/services"
)

// ChannelHandler, kanal listesi / oluşturma / PIN doğrulama endpoint'leri.
// Hepsi access token gerektirir (middleware.AuthMiddleware.Require).
type ChannelHandler struct {
	channelService services.ChannelService
}

// NewChannelHandler, constructor.
func NewChannelHandler(channelService services.ChannelService) *ChannelHandler {
	return &ChannelHandler{channelService: channelService}
}

// List — GET /api/rooms
// Default + custom kanallar, SFU occupancy ile. SFU erişilemezse liste
// yine döner (sayılar 0 görünür) — hata yanıtı client UI'ını kilitlerdi.
func (h *ChannelHandler) List(w http.ResponseWriter, r *http.Request) {
	channels, err := h.channelService.List(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, models.RoomListResponse{Rooms: channels})
}

// Create — POST /api/channels
func (h *ChannelHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.channelService.Create(&req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, resp)
}

// VerifyPin — POST /api/channels/verify-pin
// Bilinmeyen kanal 404 döner; yanlış PIN valid=false ile 200'dür.
func (h *ChannelHandler) VerifyPin(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyChannelPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	valid, err := h.channelService.VerifyPin(req.RoomName, req.Pin)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, models.VerifyChannelPinResponse{Valid: valid})
}
