package repositories

import (
	"database/sql"

	intconfig "ferry-booking/internal/config"
	intdb "ferry-booking/internal/db"
	"ferry-booking/internal/domain"
)

// SettingsRepo loads the fee configuration. Falls back to defaults when
// the table is absent so a fresh install still quotes fares.
type SettingsRepo struct {
	DB *sql.DB
}

func (r SettingsRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// LoadFeeSettings fetches the current fee settings row.
func (r SettingsRepo) LoadFeeSettings() (domain.FeeSettings, error) {
	if !intdb.HasTable(r.db(), "fee_settings") {
		return domain.DefaultFeeSettings, nil
	}

	var s domain.FeeSettings
	err := r.db().QueryRow(
		`SELECT admin_fee_cents, gcash_fee_cents, reschedule_percent, walk_in_admin_exempt
		 FROM fee_settings ORDER BY id DESC LIMIT 1`,
	).Scan(&s.AdminFeeCents, &s.GcashFeeCents, &s.ReschedulePercent, &s.WalkInAdminExempt)

	if err == sql.ErrNoRows {
		return domain.DefaultFeeSettings, nil
	}
	if err != nil {
		return domain.DefaultFeeSettings, domain.InternalError{Err: err}
	}
	return s, nil
}
