package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"algoridigm/internal/metrics"
	"algoridigm/internal/models"
)

// ErrNotFound is returned when a registration does not exist
var ErrNotFound = errors.New("registration not found")

// RegistrationService persists workshop registrations. Records are
// immutable: there is no update or delete.
type RegistrationService struct {
	database *sql.DB
	logger   *zap.Logger
	now      func() time.Time
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(database *sql.DB, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{
		database: database,
		logger:   logger,
		now:      time.Now,
	}
}

const registrationColumns = `id, name, email, phone, role, secondary_role, experience, availability, message, created_at`

// CreateRegistration validates and stores a submission. Validation failures
// return *ValidationError and nothing is written.
func (rs *RegistrationService) CreateRegistration(ctx context.Context, input models.RegistrationInput) (*models.WorkshopRegistration, error) {
	if err := ValidateRegistration(&input); err != nil {
		metrics.Registrations.WithLabelValues("invalid").Inc()
		return nil, err
	}

	reg := &models.WorkshopRegistration{
		ID:            uuid.NewString(),
		Name:          input.Name,
		Email:         input.Email,
		Phone:         input.Phone,
		Role:          input.Role,
		SecondaryRole: input.SecondaryRole,
		Experience:    input.Experience,
		Availability:  input.Availability,
		Message:       input.Message,
		CreatedAt:     rs.now().UTC().Truncate(time.Millisecond),
	}

	query := `INSERT INTO workshop_registrations (` + registrationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := rs.database.ExecContext(ctx, query,
		reg.ID, reg.Name, reg.Email, reg.Phone, reg.Role,
		reg.SecondaryRole, reg.Experience, reg.Availability, reg.Message,
		reg.CreatedAt)
	if err != nil {
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to insert registration: %w", err)
	}

	metrics.Registrations.WithLabelValues("created").Inc()
	rs.logger.Info("Registration stored",
		zap.String("id", reg.ID),
		zap.String("role", reg.Role))

	return reg, nil
}

// GetRegistration returns a registration by id
func (rs *RegistrationService) GetRegistration(ctx context.Context, id string) (*models.WorkshopRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM workshop_registrations WHERE id = ?`

	reg, err := scanRegistration(rs.database.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query registration: %w", err)
	}
	return reg, nil
}

// ListRegistrations returns every registration, newest first
func (rs *RegistrationService) ListRegistrations(ctx context.Context) ([]*models.WorkshopRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM workshop_registrations ORDER BY created_at DESC, rowid DESC`

	rows, err := rs.database.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations: %w", err)
	}
	defer rows.Close()

	registrations := []*models.WorkshopRegistration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		registrations = append(registrations, reg)
	}

	return registrations, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row rowScanner) (*models.WorkshopRegistration, error) {
	var reg models.WorkshopRegistration
	var phone, secondaryRole, experience, availability, message sql.NullString

	err := row.Scan(
		&reg.ID,
		&reg.Name,
		&reg.Email,
		&phone,
		&reg.Role,
		&secondaryRole,
		&experience,
		&availability,
		&message,
		&reg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	reg.Phone = nullableString(phone)
	reg.SecondaryRole = nullableString(secondaryRole)
	reg.Experience = nullableString(experience)
	reg.Availability = nullableString(availability)
	reg.Message = nullableString(message)
	reg.CreatedAt = reg.CreatedAt.UTC()

	return &reg, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
