package middleware

import "net/http"

// maxBodySize: istek gövdesi üst sınırı. Bu API'deki en büyük meşru
// gövde birkaç yüz byte'tır (PIN, kanal adı, username) — 10KB bile cömert.
// Sınır, bellek şişirme abuse'unu keser.
const maxBodySize = 10 << 10 // 10KB

// BodyLimit, istek gövdesini maxBodySize ile sınırlar.
//
// http.MaxBytesReader: limit aşıldığında Read hata döner ve bağlantı
// kapatılır — handler'daki json.Decode "request body too large" ile
// düşer, 400 olarak raporlanır.
func BodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		}
		next.ServeHTTP(w, r)
	})
}
