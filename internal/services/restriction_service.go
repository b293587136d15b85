package services

import (
	"fmt"
	"time"

	"ferry-booking/internal/domain"
	"ferry-booking/internal/domain/models"
	"ferry-booking/internal/repositories"
	"ferry-booking/internal/utils"
)

// RestrictionService manages warnings and booking blocks on passenger
// profiles. Warnings saturate at the configured maximum; staff decide
// separately whether a saturated profile gets blocked.
type RestrictionService struct {
	Repo      repositories.RestrictionRepo
	Notifier  Notifier
	RequestID string
	// Now overrides the clock in tests.
	Now func() time.Time
}

func (s RestrictionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowManila()
}

func (s RestrictionService) notify() Notifier {
	if s.Notifier != nil {
		return s.Notifier
	}
	return LogNotifier{RequestID: s.RequestID}
}

// Get returns the restriction row for a profile, zero-valued when the
// profile has never been warned or blocked.
func (s RestrictionService) Get(profileID int64) (models.PassengerRestriction, error) {
	return s.Repo.GetByProfile(profileID)
}

// Warn adds one warning to the profile. A profile already at the
// maximum is rejected rather than incremented further.
func (s RestrictionService) Warn(profileID, actorID int64) (models.PassengerRestriction, error) {
	ok, err := s.Repo.Warn(profileID, actorID)
	if err != nil {
		return models.PassengerRestriction{}, err
	}
	if !ok {
		return models.PassengerRestriction{}, domain.ConflictError{
			Msg: fmt.Sprintf("profile already has %d warnings", models.MaxBookingWarnings),
		}
	}
	utils.LogEvent(s.RequestID, "restriction", "warn", fmt.Sprintf("profile=%d", profileID))
	return s.Repo.GetByProfile(profileID)
}

// Block places an indefinite booking block on the profile. Blocking an
// already-blocked profile keeps the original block timestamp.
func (s RestrictionService) Block(profileID, actorID int64) (models.PassengerRestriction, error) {
	if err := s.Repo.Block(profileID, actorID, s.now()); err != nil {
		return models.PassengerRestriction{}, err
	}
	s.notify().RestrictionChanged(profileID, true)
	utils.LogEvent(s.RequestID, "restriction", "block", fmt.Sprintf("profile=%d", profileID))
	return s.Repo.GetByProfile(profileID)
}

// BlockUntil places a block that expires at the given time.
func (s RestrictionService) BlockUntil(profileID, actorID int64, until time.Time) (models.PassengerRestriction, error) {
	if !until.After(s.now()) {
		return models.PassengerRestriction{}, domain.ValidationError{Field: "blocked_until", Msg: "must be in the future"}
	}
	if err := s.Repo.BlockUntil(profileID, actorID, until); err != nil {
		return models.PassengerRestriction{}, err
	}
	s.notify().RestrictionChanged(profileID, true)
	utils.LogEvent(s.RequestID, "restriction", "block_until",
		fmt.Sprintf("profile=%d until=%s", profileID, until.Format(time.RFC3339)))
	return s.Repo.GetByProfile(profileID)
}

// Unblock removes any block, indefinite or timed.
func (s RestrictionService) Unblock(profileID, actorID int64) (models.PassengerRestriction, error) {
	if err := s.Repo.Unblock(profileID, actorID); err != nil {
		return models.PassengerRestriction{}, err
	}
	s.notify().RestrictionChanged(profileID, false)
	utils.LogEvent(s.RequestID, "restriction", "unblock", fmt.Sprintf("profile=%d", profileID))
	return s.Repo.GetByProfile(profileID)
}

// ClearWarnings resets the warning counter to zero without touching
// any block.
func (s RestrictionService) ClearWarnings(profileID, actorID int64) (models.PassengerRestriction, error) {
	if err := s.Repo.ClearWarnings(profileID, actorID); err != nil {
		return models.PassengerRestriction{}, err
	}
	utils.LogEvent(s.RequestID, "restriction", "clear_warnings", fmt.Sprintf("profile=%d", profileID))
	return s.Repo.GetByProfile(profileID)
}
