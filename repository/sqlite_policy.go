package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gamerscream/gamerscream/models"
	"github.com/gamerscream/gamerscream/pkg"
)

// sqlitePolicyRepo, PolicyRepository interface'inin SQLite implementasyonu.
type sqlitePolicyRepo struct {
	db *sql.DB
}

// NewSQLitePolicyRepo, constructor — interface döner.
func NewSQLitePolicyRepo(db *sql.DB) PolicyRepository {
	return &sqlitePolicyRepo{db: db}
}

// Get, tek satırlık app_policy kaydını okur.
func (r *sqlitePolicyRepo) Get(ctx context.Context) (*models.AppPolicy, error) {
	var p models.AppPolicy
	err := r.db.QueryRowContext(ctx, `
		SELECT app_pin, signing_secret, updated_at
		FROM app_policy WHERE id = 1`,
	).Scan(&p.AppPin, &p.SigningSecret, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get app policy: %w", err)
	}
	return &p, nil
}

// Save, policy satırını upsert eder.
//
// SQLite'ın "ON CONFLICT ... DO UPDATE" syntax'ı (upsert) tek sorguda
// insert-veya-update yapar — ayrı bir SELECT'e gerek kalmaz, atomiktir.
func (r *sqlitePolicyRepo) Save(ctx context.Context, policy *models.AppPolicy) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO app_policy (id, app_pin, signing_secret, updated_at)
		VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			app_pin = excluded.app_pin,
			signing_secret = excluded.signing_secret,
			updated_at = CURRENT_TIMESTAMP`,
		policy.AppPin, policy.SigningSecret,
	)
	if err != nil {
		return fmt.Errorf("failed to save app policy: %w", err)
	}
	return nil
}
