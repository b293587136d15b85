package repositories

import (
	"database/sql"

	intconfig "ferry-booking/internal/config"
	intdb "ferry-booking/internal/db"
	"ferry-booking/internal/domain"
	"ferry-booking/internal/domain/models"
)

// FareRuleRepo resolves the active versioned fare for a route.
type FareRuleRepo struct {
	DB *sql.DB
}

func (r FareRuleRepo) q() intdb.Queryer {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// ActiveForRoute returns the most recent fare rule whose validity
// window covers the given date (open-ended when valid_until is null).
func (r FareRuleRepo) ActiveForRoute(routeID int64, date string) (models.FareRule, error) {
	var rule models.FareRule
	err := r.q().QueryRow(
		`SELECT id, route_id, base_fare_cents, discount_percent,
			COALESCE(valid_from, ''), COALESCE(valid_until, '')
		 FROM fare_rules
		 WHERE route_id = ? AND valid_from <= ? AND (valid_until IS NULL OR valid_until >= ?)
		 ORDER BY valid_from DESC, id DESC
		 LIMIT 1`,
		routeID, date, date,
	).Scan(&rule.ID, &rule.RouteID, &rule.BaseFareCents, &rule.DiscountPercent,
		&rule.ValidFrom, &rule.ValidUntil)

	if err == sql.ErrNoRows {
		return rule, domain.NotFoundError{Resource: "fare rule", Err: err}
	}
	if err != nil {
		return rule, domain.InternalError{Err: err}
	}
	return rule, nil
}
