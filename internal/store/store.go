// Package store defines the document store the scheduler persists to.
// Drivers live in the subpackages; each keeps records as whole documents
// so legacy fields written by older revisions survive until migrated.
package store

import (
	"context"
	"errors"

	"driver-scheduler/internal/model"
)

// ErrNotFound is returned when a by-id operation matches no document.
var ErrNotFound = errors.New("not found")

type Store interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error

	AppointmentTypes
	Appointments
	Settings
	Migrator
}

type AppointmentTypes interface {
	InsertType(ctx context.Context, t *model.AppointmentType) error
	InsertTypes(ctx context.Context, ts []model.AppointmentType) error
	// ListTypes returns at most limit documents in insertion order.
	ListTypes(ctx context.Context, limit int) ([]model.AppointmentType, error)
	GetType(ctx context.Context, id string) (*model.AppointmentType, error)
	UpdateType(ctx context.Context, id string, fields map[string]any) error
	DeleteType(ctx context.Context, id string) error
	CountTypes(ctx context.Context) (int64, error)
}

type Appointments interface {
	InsertAppointment(ctx context.Context, a *model.Appointment) error
	ListAppointments(ctx context.Context, f model.AppointmentFilter, limit int) ([]model.Appointment, error)
	GetAppointment(ctx context.Context, id string) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, fields map[string]any) error
	DeleteAppointment(ctx context.Context, id string) error
	CountAppointmentsByType(ctx context.Context, typeID string) (int64, error)
}

type Settings interface {
	GetAuthConfig(ctx context.Context, user string) (*model.AuthConfig, error)
	UpsertPattern(ctx context.Context, user string, pattern []int, updatedAt string) error
	GetSMSTemplate(ctx context.Context) (*model.SMSTemplate, error)
	SaveSMSTemplate(ctx context.Context, t *model.SMSTemplate) error
}

// Migrator holds the bulk rewrites used by the offline migration. Each
// returns the number of documents it modified and is a no-op once the
// collection is normalized.
type Migrator interface {
	// MigrateLegacyTypes replaces the coded appointment_type field with
	// appointment_type_id, using fallback for codes missing from mapping.
	MigrateLegacyTypes(ctx context.Context, mapping map[string]string, fallback string) (int64, error)
	// BackfillTypeID sets appointment_type_id where the field is absent.
	BackfillTypeID(ctx context.Context, typeID string) (int64, error)
	// NormalizeLuggage folds a numeric luggage_count into luggage_passengers.
	NormalizeLuggage(ctx context.Context) (int64, error)
	RenameType(ctx context.Context, from, to string) (int64, error)
}

const SMSTemplateKey = "sms_template"
