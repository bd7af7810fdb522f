// Package models, katmanlar arasında paylaşılan veri yapılarını barındırır.
//
// Bu struct'lar models paketinde tanımlanır çünkü:
// - Birden fazla katman (services, handlers, repository) tarafından kullanılır
// - Circular dependency'yi önler — her katman models'e bağımlı olabilir
package models

import "time"

// AppPolicy, uygulama geneli erişim politikasıdır: paylaşılan PIN ve
// access token'ları imzalayan secret.
//
// Bu çift, sistemdeki TEK kalıcı state'tir. Neden?
// Access token'lar server tarafında saklanmaz — geçerlilik tamamen
// içerik + güncel secret fonksiyonudur. "Tüm token'ları geçersiz kıl"
// işlemi bu yüzden sadece secret'ı değiştirmekten ibarettir; defter
// tutmaya gerek yoktur. Secret restart'ta kaybolursa tüm kullanıcılar
// istem dışı logout olur — o yüzden veritabanında tutulur.
type AppPolicy struct {
	AppPin        string
	SigningSecret string
	UpdatedAt     time.Time
}
