package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gamerscream/gamerscream/models"
	"github.com/gamerscream/gamerscream/pkg"
	"github.com/gamerscream/gamerscream/pkg/ratelimit"
	"github.com/gamerscream/gamerscream/services"
)

// AdminHandler, operator control plane endpoint'leri.
//
// Dikkat: bu endpoint'ler access token middleware'ından GEÇMEZ — yetki
// body'deki admin secret'tır ve her çağrıda AdminService içinde doğrulanır.
// Operator'ın önce kullanıcı PIN'inden geçmesi gerekmez.
type AdminHandler struct {
	adminService services.AdminService
	limiter      *ratelimit.Limiter // Retry-After header'ı için (admin limiter'ı)
}

// NewAdminHandler, constructor.
func NewAdminHandler(adminService services.AdminService, limiter *ratelimit.Limiter) *AdminHandler {
	return &AdminHandler{adminService: adminService, limiter: limiter}
}

// Verify — POST /api/admin/verify
func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req models.AdminVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ip := ratelimit.ExtractIP(r)
	if err := h.adminService.Verify(ip, req.Secret); err != nil {
		writeAuthError(w, h.limiter, ip, err)
		return
	}

	pkg.JSON(w, http.StatusOK, models.AdminVerifyResponse{Valid: true})
}

// ChangePin — POST /api/admin/change-pin
// Yan etki: signing secret da döner → uçuştaki TÜM access token'lar ölür.
func (h *AdminHandler) ChangePin(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ip := ratelimit.ExtractIP(r)
	if err := h.adminService.ChangePin(r.Context(), ip, req.Secret, req.NewPin); err != nil {
		writeAuthError(w, h.limiter, ip, err)
		return
	}

	pkg.JSON(w, http.StatusOK, models.AdminActionResponse{
		Success: true,
		Message: "PIN changed, all sessions invalidated",
	})
}

// InvalidateTokens — POST /api/admin/invalidate-tokens
// PIN aynı kalır, sadece signing secret döner.
func (h *AdminHandler) InvalidateTokens(w http.ResponseWriter, r *http.Request) {
	var req models.AdminVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ip := ratelimit.ExtractIP(r)
	if err := h.adminService.InvalidateTokens(r.Context(), ip, req.Secret); err != nil {
		writeAuthError(w, h.limiter, ip, err)
		return
	}

	pkg.JSON(w, http.StatusOK, models.AdminActionResponse{
		Success: true,
		Message: "all access tokens invalidated",
	})
}

// KickAll — POST /api/admin/kick-all
func (h *AdminHandler) KickAll(w http.ResponseWriter, r *http.Request) {
	var req models.AdminVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ip := ratelimit.ExtractIP(r)
	kicked, err := h.adminService.KickAll(r.Context(), ip, req.Secret)
	if err != nil {
		writeAuthError(w, h.limiter, ip, err)
		return
	}

	pkg.JSON(w, http.StatusOK, models.KickAllResponse{Success: true, Kicked: kicked})
}
