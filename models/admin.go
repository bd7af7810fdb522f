package models

// Admin istek gövdeleri — hepsi operator secret'ını body'de taşır.
// Secret doğrulaması AdminService içinde yapılır (rate limit + timing-safe
// compare + "yapılandırılmamışsa fail closed").

// AdminVerifyRequest — POST /api/admin/verify body'si.
// Client, admin panelini göstermeden önce secret'ı bu endpoint ile sınar.
type AdminVerifyRequest struct {
	Secret string `json:"secret"`
}

// AdminVerifyResponse — secret geçerliyse döner.
type AdminVerifyResponse struct {
	Valid bool `json:"valid"`
}

// ChangePinRequest — POST /api/admin/change-pin body'si.
type ChangePinRequest struct {
	Secret string `json:"secret"`
	NewPin string `json:"newPin"`
}

// AdminActionResponse, PIN değiştirme ve token invalidation yanıtı.
type AdminActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// KickAllResponse — POST /api/admin/kick-all yanıtı.
// Kicked, BAŞARIYLA atılan katılımcı sayısıdır; tek tek removal hataları
// işlemi durdurmaz (best-effort), sayıya dahil edilmez.
type KickAllResponse struct {
	Success bool `json:"success"`
	Kicked  int  `json:"kicked"`
}
