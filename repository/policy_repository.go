// Package repository, kalıcı state ve dış sistem erişimlerini soyutlar.
//
// Her concern için bir interface + concrete implementasyon çifti vardır.
// Service katmanı sadece interface'leri görür — testlerde fake
// implementasyonlar enjekte edilir (duck typing sayesinde explicit
// "implements" bildirimi gerekmez).
package repository

import (
	"context"

	"github.com/gamerscream/gamerscream/models"
)

// PolicyRepository, AppPolicy'nin (PIN + signing secret) kalıcı kaydı.
//
// Sistemdeki tek durable state budur. Restart'ta Get ile yüklenir,
// her admin mutasyonunda Save ile yazılır.
type PolicyRepository interface {
	// Get, kayıtlı policy'yi döner. Henüz kayıt yoksa pkg.ErrNotFound
	// döner — caller env varsayılanlarıyla seed eder.
	Get(ctx context.Context) (*models.AppPolicy, error)

	// Save, policy'yi yazar (insert veya update — tek satır).
	Save(ctx context.Context, policy *models.AppPolicy) error
}
