package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"eventpay/internal/model"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrAlreadyPaid          = errors.New("registration already paid")
)

type Repository interface {
	GetCurrentEvent(ctx context.Context) (*model.Event, error)
	ReplaceCurrentEvent(ctx context.Context, e *model.Event) error

	RegisterTx(ctx context.Context, reg *model.Registration) (int64, bool, error)
	GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error)
	GetAllRegistrations(ctx context.Context) ([]model.Registration, error)
	UpdateRegistrationStatus(ctx context.Context, id int64, status string) error

	CheckAdminCredentials(ctx context.Context, email, password string) (bool, error)
	SeedAdmin(ctx context.Context, email, password string) error

	Ping() error
	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) Ping() error {
	return r.db.Master.Ping()
}

func (r *repository) MigrateUp(migrationsDir string) error {
	return r.applyMigrations(migrationsDir, "*.up.sql")
}

func (r *repository) MigrateDown(migrationsDir string) error {
	return r.applyMigrations(migrationsDir, "*.down.sql")
}

func (r *repository) applyMigrations(migrationsDir, pattern string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, pattern))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations (%s) applied from %s", pattern, migrationsDir)
	return nil
}

// GetCurrentEvent reads the single event row. A missing row is not an
// error: it yields a zero event with branding defaults.
func (r *repository) GetCurrentEvent(ctx context.Context) (*model.Event, error) {
	query := `
		SELECT title, scheduled_date, scheduled_time, about, features,
		       price, event_link, target_audience, brand_logo, brand_name
		FROM event_settings
		WHERE id = TRUE
	`
	row := r.db.QueryRowContext(ctx, query)

	var e model.Event
	var features, audience string
	err := row.Scan(
		&e.Title, &e.ScheduledDate, &e.ScheduledTime, &e.About, &features,
		&e.Price, &e.EventLink, &audience, &e.BrandLogo, &e.BrandName,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// fall through to defaults
	case err != nil:
		return nil, fmt.Errorf("failed to get event: %w", err)
	default:
		e.Features = model.SplitList(features)
		e.TargetAudience = model.SplitList(audience)
	}

	e.ApplyDefaults()
	return &e, nil
}

// ReplaceCurrentEvent overwrites every column of the single event row,
// inserting it if it does not exist yet.
func (r *repository) ReplaceCurrentEvent(ctx context.Context, e *model.Event) error {
	query := `
		INSERT INTO event_settings (id, title, scheduled_date, scheduled_time, about,
		                            features, price, event_link, target_audience,
		                            brand_logo, brand_name, updated_at)
		VALUES (TRUE, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			scheduled_date = EXCLUDED.scheduled_date,
			scheduled_time = EXCLUDED.scheduled_time,
			about = EXCLUDED.about,
			features = EXCLUDED.features,
			price = EXCLUDED.price,
			event_link = EXCLUDED.event_link,
			target_audience = EXCLUDED.target_audience,
			brand_logo = EXCLUDED.brand_logo,
			brand_name = EXCLUDED.brand_name,
			updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query,
		e.Title, e.ScheduledDate, e.ScheduledTime, e.About,
		model.JoinList(e.Features), e.Price, e.EventLink,
		model.JoinList(e.TargetAudience), e.BrandLogo, e.BrandName,
	)
	if err != nil {
		return fmt.Errorf("failed to replace event: %w", err)
	}
	return nil
}

// RegisterTx performs the lookup-then-branch registration inside one
// transaction with the existing row locked, so concurrent submissions for
// the same email serialize instead of double-inserting. Returns the
// registration id and whether an existing Unpaid row was overwritten.
func (r *repository) RegisterTx(ctx context.Context, reg *model.Registration) (int64, bool, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var existingID int64
	var status string
	err = tx.QueryRowContext(ctx, `
		SELECT id, status
		FROM registrations
		WHERE email = $1
		FOR UPDATE
	`, reg.Email).Scan(&existingID, &status)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		var id int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO registrations (full_name, email, phone, org, role, amount, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			RETURNING id
		`, reg.FullName, reg.Email, reg.Phone, reg.Org, reg.Role, reg.Amount, model.StatusUnpaid).Scan(&id)
		if err != nil {
			_ = tx.Rollback()
			return 0, false, fmt.Errorf("failed to create registration: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return 0, false, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return id, false, nil

	case err != nil:
		_ = tx.Rollback()
		return 0, false, fmt.Errorf("failed to look up registration: %w", err)
	}

	if status == model.StatusPaid {
		_ = tx.Rollback()
		return 0, false, ErrAlreadyPaid
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE registrations
		SET full_name = $1, phone = $2, org = $3, role = $4, amount = $5, updated_at = NOW()
		WHERE id = $6
	`, reg.FullName, reg.Phone, reg.Org, reg.Role, reg.Amount, existingID)
	if err != nil {
		_ = tx.Rollback()
		return 0, false, fmt.Errorf("failed to update registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return existingID, true, nil
}

func (r *repository) GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error) {
	query := `
		SELECT id, full_name, email, phone, org, role, amount, status, created_at, updated_at
		FROM registrations
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var reg model.Registration
	if err := row.Scan(
		&reg.ID,
		&reg.FullName,
		&reg.Email,
		&reg.Phone,
		&reg.Org,
		&reg.Role,
		&reg.Amount,
		&reg.Status,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	return &reg, nil
}

func (r *repository) GetAllRegistrations(ctx context.Context) ([]model.Registration, error) {
	query := `
		SELECT id, full_name, email, phone, org, role, amount, status, created_at, updated_at
		FROM registrations
		ORDER BY id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get registrations: %w", err)
	}
	defer rows.Close()

	regs := make([]model.Registration, 0)
	for rows.Next() {
		var reg model.Registration
		if err := rows.Scan(
			&reg.ID,
			&reg.FullName,
			&reg.Email,
			&reg.Phone,
			&reg.Org,
			&reg.Role,
			&reg.Amount,
			&reg.Status,
			&reg.CreatedAt,
			&reg.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, reg)
	}

	return regs, rows.Err()
}

// UpdateRegistrationStatus is unconditional; a missing row is logged, not
// reported, so status resets never fail a payment callback.
func (r *repository) UpdateRegistrationStatus(ctx context.Context, id int64, status string) error {
	query := `
		UPDATE registrations
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`
	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		r.log.Warn().Int64("registration_id", id).Str("status", status).
			Msg("status update matched no registration")
	}
	return nil
}

func (r *repository) CheckAdminCredentials(ctx context.Context, email, password string) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM admins
		WHERE email = $1 AND password = $2
	`
	var count int
	if err := r.db.QueryRowContext(ctx, query, email, password).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check admin credentials: %w", err)
	}
	return count > 0, nil
}

// SeedAdmin inserts the bootstrap admin if the email is not taken yet.
func (r *repository) SeedAdmin(ctx context.Context, email, password string) error {
	query := `
		INSERT INTO admins (email, password)
		VALUES ($1, $2)
		ON CONFLICT (email) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, email, password); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	return nil
}
