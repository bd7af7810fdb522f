package models

// JoinTokenRequest — POST /api/token body'si.
//
// DeviceID client'ın ürettiği kalıcı rastgele kimliktir (cihaz başına bir
// kez üretilir). İki amacı var:
// 1. Aynı görünen adı seçen iki cihazın SFU identity'lerinin çakışmaması
// 2. Karşı taraftaki client'ların volume tercihlerini cihaza göre saklaması
type JoinTokenRequest struct {
	Username string `json:"username"`
	Room     string `json:"room"`
	DeviceID string `json:"deviceId,omitempty"`
	Pin      string `json:"pin,omitempty"`
}

// JoinTokenResponse, odaya özel join credential'ı ve SFU bağlantı adresi.
//
// Token sadece istenen odaya join/publish/subscribe verir — oda oluşturma
// yetkisi BİLİNÇLİ olarak verilmez (client SFU üzerinde keyfi oda açamaz).
type JoinTokenResponse struct {
	Token      string `json:"token"`
	LiveKitURL string `json:"livekitUrl"`
}
