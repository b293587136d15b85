package repositories

import (
	"database/sql"
	"time"

	intconfig "ferry-booking/internal/config"
	intdb "ferry-booking/internal/db"
	"ferry-booking/internal/domain"
	"ferry-booking/internal/domain/models"
)

// RestrictionRepo wraps DB access for passenger booking restrictions.
// Rows are created lazily on first warning or block.
type RestrictionRepo struct {
	DB *sql.DB
}

func (r RestrictionRepo) q() intdb.Queryer {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetByProfile loads the restriction row for a profile, or a zero-value
// restriction when none exists yet.
func (r RestrictionRepo) GetByProfile(profileID int64) (models.PassengerRestriction, error) {
	var (
		res          models.PassengerRestriction
		blockedAt    sql.NullTime
		blockedUntil sql.NullTime
	)
	err := r.q().QueryRow(
		`SELECT id, profile_id, booking_warnings, booking_blocked_at, blocked_until,
			COALESCE(updated_by, 0), created_at, updated_at
		 FROM passenger_restrictions WHERE profile_id = ?`,
		profileID,
	).Scan(&res.ID, &res.ProfileID, &res.BookingWarnings, &blockedAt, &blockedUntil,
		&res.UpdatedBy, &res.CreatedAt, &res.UpdatedAt)

	if err == sql.ErrNoRows {
		return models.PassengerRestriction{ProfileID: profileID}, nil
	}
	if err != nil {
		return res, domain.InternalError{Err: err}
	}
	if blockedAt.Valid {
		res.BlockedAt = &blockedAt.Time
	}
	if blockedUntil.Valid {
		res.BlockedUntil = &blockedUntil.Time
	}
	return res, nil
}

// ensureRow lazily creates the restriction row for a profile.
func (r RestrictionRepo) ensureRow(profileID, actorID int64) error {
	_, err := r.q().Exec(
		`INSERT INTO passenger_restrictions (profile_id, booking_warnings, updated_by, created_at, updated_at)
		 VALUES (?, 0, NULLIF(?, 0), NOW(), NOW())
		 ON DUPLICATE KEY UPDATE updated_at = updated_at`,
		profileID, actorID,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// Warn increments the warning counter, saturating at the maximum. The
// cap sits in the WHERE clause; zero rows affected means the profile
// already carries the maximum and must be blocked instead.
func (r RestrictionRepo) Warn(profileID, actorID int64) (bool, error) {
	if err := r.ensureRow(profileID, actorID); err != nil {
		return false, err
	}
	res, err := r.q().Exec(
		`UPDATE passenger_restrictions
		 SET booking_warnings = booking_warnings + 1, updated_by = NULLIF(?, 0), updated_at = NOW()
		 WHERE profile_id = ? AND booking_warnings < ?`,
		actorID, profileID, models.MaxBookingWarnings,
	)
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	return n > 0, nil
}

// Block sets the indefinite block timestamp. Idempotent: a second call
// keeps the original blocked-at time.
func (r RestrictionRepo) Block(profileID, actorID int64, now time.Time) error {
	if err := r.ensureRow(profileID, actorID); err != nil {
		return err
	}
	_, err := r.q().Exec(
		`UPDATE passenger_restrictions
		 SET booking_blocked_at = COALESCE(booking_blocked_at, ?), updated_by = NULLIF(?, 0), updated_at = NOW()
		 WHERE profile_id = ?`,
		now, actorID, profileID,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// BlockUntil sets a temporary block that lifts on its own.
func (r RestrictionRepo) BlockUntil(profileID, actorID int64, until time.Time) error {
	if err := r.ensureRow(profileID, actorID); err != nil {
		return err
	}
	_, err := r.q().Exec(
		`UPDATE passenger_restrictions
		 SET blocked_until = ?, updated_by = NULLIF(?, 0), updated_at = NOW()
		 WHERE profile_id = ?`,
		until, actorID, profileID,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// Unblock clears the indefinite block. Warnings are untouched.
func (r RestrictionRepo) Unblock(profileID, actorID int64) error {
	_, err := r.q().Exec(
		`UPDATE passenger_restrictions
		 SET booking_blocked_at = NULL, blocked_until = NULL, updated_by = NULLIF(?, 0), updated_at = NOW()
		 WHERE profile_id = ?`,
		actorID, profileID,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// ClearWarnings resets the counter without touching block state.
func (r RestrictionRepo) ClearWarnings(profileID, actorID int64) error {
	_, err := r.q().Exec(
		`UPDATE passenger_restrictions
		 SET booking_warnings = 0, updated_by = NULLIF(?, 0), updated_at = NOW()
		 WHERE profile_id = ?`,
		actorID, profileID,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}
