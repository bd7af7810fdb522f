package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gamerscream/gamerscream/models"
	"github.com/gamerscream/gamerscream/pkg"
	"github.com/gamerscream/gamerscream/services"
)

// VoiceHandler, LiveKit join credential endpoint'i.
type VoiceHandler struct {
	voiceService services.VoiceService
}

// NewVoiceHandler, constructor.
func NewVoiceHandler(voiceService services.VoiceService) *VoiceHandler {
	return &VoiceHandler{voiceService: voiceService}
}

// Token — POST /api/token
// İstenen oda için kapsamlı JWT üretir. Korumalı custom kanalda PIN
// burada da zorlanır — client'taki PIN ekranı atlatılabilir, bu servis
// atlatılamaz.
func (h *VoiceHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req models.JoinTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.voiceService.IssueToken(&req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, resp)
}
