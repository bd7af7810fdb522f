package models

import "encoding/json"

// VerifyPinRequest — POST /api/verify-app-pin body'si.
type VerifyPinRequest struct {
	Pin string `json:"pin"`
}

// UnmarshalJSON, pin alanını esnek okur. String olmayan pin
// ({"pin":1520} gibi) decode hatası DEĞİLDİR; boş pin'e düşer ve
// doğrulamada diğer yanlış girişlerle aynı yoldan reddedilir (403,
// deneme sayacı işler). Client sözleşmesi tip hatasını kimlik hatası
// sayar, istek hatası değil.
func (r *VerifyPinRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Pin json.RawMessage `json:"pin"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var pin string
	if json.Unmarshal(raw.Pin, &pin) == nil {
		r.Pin = pin
	}
	return nil
}

// VerifyPinResponse, başarılı PIN doğrulamasında dönen access token.
//
// Access token formatı: "<expiresAtMillis>.<hexHMAC>"
// JWT değildir — desktop client'ın beklediği wire format budur.
// İçinde kimlik yoktur; sadece "PIN kapısından geçti" kanıtıdır.
type VerifyPinResponse struct {
	AccessToken string `json:"accessToken"`
}

// VerifyTokenRequest — POST /api/verify-access-token body'si.
// Dönen client, kayıtlı token'ı ile PIN ekranını atlayabilir mi diye sorar.
type VerifyTokenRequest struct {
	AccessToken string `json:"accessToken"`
}

// VerifyTokenResponse — token geçerliliği. Hata dönmez; geçersiz token
// sadece valid=false'tur (bkz. services.AuthService.ValidateAccessToken).
type VerifyTokenResponse struct {
	Valid bool `json:"valid"`
}
