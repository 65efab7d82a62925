package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/appointment-booking/internal/model"
)

// AppointmentRepo persists rows of the 'appointments' table. It
// implements the booking engine's AppointmentStore.
type AppointmentRepo struct{ DB *sql.DB }

func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{DB: db} }

// SlotTaken reports whether an active appointment already occupies
// the (provider, slot) pair.
func (r *AppointmentRepo) SlotTaken(ctx context.Context, providerID uint64, slot time.Time) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM appointments WHERE provider_id=? AND slot=? AND canceled_at IS NULL)",
		providerID, slot).Scan(&exists)
	return exists, err
}

// CreateIfFree inserts the appointment inside a transaction that
// first locks any active row for the same (provider, slot) pair.
// A plain unique index cannot express "at most one ACTIVE row per
// slot" because canceled rows must not block rebooking, so the
// conflict probe and the insert run under one SELECT ... FOR UPDATE.
// Returns ErrSlotTaken when a concurrent booking won the slot.
func (r *AppointmentRepo) CreateIfFree(ctx context.Context, a *model.Appointment) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var existing uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM appointments WHERE provider_id=? AND slot=? AND canceled_at IS NULL LIMIT 1 FOR UPDATE",
		a.ProviderID, a.Slot).Scan(&existing)
	if err == nil {
		return ErrSlotTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO appointments (user_id, provider_id, date, slot, created_at, updated_at) VALUES (?,?,?,?,?,?)",
		a.UserID, a.ProviderID, a.Date, a.Slot, now, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	a.ID = uint64(id)
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

// GetDetail fetches an appointment joined with the names and emails
// of its requester and provider.
func (r *AppointmentRepo) GetDetail(ctx context.Context, id uint64) (model.AppointmentDetail, error) {
	var (
		d        model.AppointmentDetail
		canceled sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT a.id, a.user_id, a.provider_id, a.date, a.slot, a.canceled_at, a.created_at, a.updated_at,
		       u.name, u.email, p.name, p.email
		FROM appointments a
		JOIN users u ON u.id = a.user_id
		JOIN users p ON p.id = a.provider_id
		WHERE a.id=? LIMIT 1`, id).Scan(
		&d.ID, &d.UserID, &d.ProviderID, &d.Date, &d.Slot, &canceled, &d.CreatedAt, &d.UpdatedAt,
		&d.RequesterName, &d.RequesterEmail, &d.ProviderName, &d.ProviderEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.AppointmentDetail{}, ErrAppointmentNotFound
		}
		return model.AppointmentDetail{}, err
	}
	if canceled.Valid {
		t := canceled.Time
		d.CanceledAt = &t
	}
	return d, nil
}

// Cancel stamps the cancellation time on a single appointment row.
func (r *AppointmentRepo) Cancel(ctx context.Context, id uint64, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE appointments SET canceled_at=?, updated_at=? WHERE id=?", at, at, id)
	return err
}

// AppointmentWithProvider is a row of the requester's listing: the
// appointment plus provider identity and avatar metadata.
type AppointmentWithProvider struct {
	model.Appointment
	ProviderName  string
	ProviderEmail string
	AvatarID      sql.NullInt64
	AvatarName    sql.NullString
	AvatarPath    sql.NullString
}

// ListActive returns the requester's non-canceled appointments
// ordered by scheduled time ascending, one fixed-size page at a time.
func (r *AppointmentRepo) ListActive(ctx context.Context, userID uint64, page, size int) ([]AppointmentWithProvider, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * size
	rows, err := r.DB.QueryContext(ctx, `
		SELECT a.id, a.user_id, a.provider_id, a.date, a.slot, a.created_at, a.updated_at,
		       p.name, p.email, f.id, f.name, f.path
		FROM appointments a
		JOIN users p ON p.id = a.provider_id
		LEFT JOIN files f ON f.id = p.avatar_id
		WHERE a.user_id=? AND a.canceled_at IS NULL
		ORDER BY a.date ASC
		LIMIT ? OFFSET ?`, userID, size, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AppointmentWithProvider
	for rows.Next() {
		var a AppointmentWithProvider
		if err := rows.Scan(&a.ID, &a.UserID, &a.ProviderID, &a.Date, &a.Slot, &a.CreatedAt, &a.UpdatedAt,
			&a.ProviderName, &a.ProviderEmail, &a.AvatarID, &a.AvatarName, &a.AvatarPath); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListSlots returns the active slots booked for a provider within
// [from, to). The availability endpoint compares these against the
// hour grid of the requested day.
func (r *AppointmentRepo) ListSlots(ctx context.Context, providerID uint64, from, to time.Time) ([]time.Time, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT slot FROM appointments WHERE provider_id=? AND canceled_at IS NULL AND slot>=? AND slot<?",
		providerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// AppointmentWithRequester is a row of a provider's day schedule.
type AppointmentWithRequester struct {
	model.Appointment
	RequesterName string
}

// ListForProviderDay returns a provider's active appointments within
// [from, to) ordered by scheduled time, with requester names attached.
func (r *AppointmentRepo) ListForProviderDay(ctx context.Context, providerID uint64, from, to time.Time) ([]AppointmentWithRequester, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT a.id, a.user_id, a.provider_id, a.date, a.slot, a.created_at, a.updated_at, u.name
		FROM appointments a
		JOIN users u ON u.id = a.user_id
		WHERE a.provider_id=? AND a.canceled_at IS NULL AND a.slot>=? AND a.slot<?
		ORDER BY a.date ASC`, providerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AppointmentWithRequester
	for rows.Next() {
		var a AppointmentWithRequester
		if err := rows.Scan(&a.ID, &a.UserID, &a.ProviderID, &a.Date, &a.Slot, &a.CreatedAt, &a.UpdatedAt,
			&a.RequesterName); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
