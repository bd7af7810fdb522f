// Package crypto — timing-safe karşılaştırma yardımcıları.
//
// PIN, admin secret ve token imzası gibi gizli değerler normal `==` ile
// karşılaştırılMAZ: string karşılaştırması ilk farklı byte'ta durur ve
// geçen süre saldırgana "kaç karakter doğruydu" bilgisini sızdırır.
//
// crypto/subtle.ConstantTimeCompare her byte'ı her zaman karşılaştırır —
// süre, içeriğe değil sadece uzunluğa bağlıdır.
package crypto

import "crypto/subtle"

// SecureCompare, iki string'i sabit zamanda karşılaştırır.
//
// Uzunluklar farklıysa sonuç kesin false'tur, ama erken dönmek yerine
// önce a'nın kendisiyle dummy bir karşılaştırma yapılır. Böylece
// "uzunluk tutmadı" dalı da tam maliyetli karşılaştırma yolundan geçer —
// yanlış uzunlukta tahmin gönderen bir saldırgan, doğru uzunlukta
// gönderenden ölçülebilir şekilde daha hızlı cevap almaz.
func SecureCompare(a, b string) bool {
	if len(a) != len(b) {
		subtle.ConstantTimeCompare([]byte(a), []byte(a))
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
