package launch

import "errors"

var (
	// ErrListingNotFound marks lookups for unknown listing identifiers.
	ErrListingNotFound = errors.New("launch: listing not found")
	// ErrNotDraft is returned when activation targets a listing that already
	// left the draft state.
	ErrNotDraft = errors.New("launch: listing is not in draft")
	// ErrNotActive is returned when an operation requires an active listing.
	ErrNotActive = errors.New("launch: listing is not active")
	// ErrNotFinalized is returned when completion is attempted before the
	// vesting schedule exists.
	ErrNotFinalized = errors.New("launch: listing is not finalized")
	// ErrNotCancelled is returned when a refund is attempted against a
	// listing that was never cancelled.
	ErrNotCancelled = errors.New("launch: listing is not cancelled")
	// ErrCannotCancel marks cancellation attempts after the schedule has been
	// fixed. Once finalized a listing can only complete.
	ErrCannotCancel = errors.New("launch: listing can no longer be cancelled")
	// ErrPaused is returned when a listing-level pause blocks a gated
	// operation. Protocol-wide pauses surface as common.ErrModulePaused.
	ErrPaused = errors.New("launch: listing is paused")
	// ErrInvalidAmount rejects zero or negative amounts.
	ErrInvalidAmount = errors.New("launch: amount must be positive")
	// ErrBelowMinimum rejects deposits under the protocol minimum.
	ErrBelowMinimum = errors.New("launch: deposit below protocol minimum")
	// ErrNothingToClaim is returned when the computed claimable is zero. This
	// is the mechanism that rejects double claims and no-revenue claims.
	ErrNothingToClaim = errors.New("launch: nothing to claim")
	// ErrNotAuthorized marks a missing or mismatched capability token.
	ErrNotAuthorized = errors.New("launch: not authorized")
	// ErrTrancheNotReady is returned when the tranche unlock time has not
	// elapsed yet.
	ErrTrancheNotReady = errors.New("launch: tranche not ready")
	// ErrAlreadyReleased rejects a second release of the same tranche index.
	ErrAlreadyReleased = errors.New("launch: tranche already released")
	// ErrAllTranchesReleased is returned when the release index falls outside
	// the schedule.
	ErrAllTranchesReleased = errors.New("launch: all tranches released")
	// ErrInsufficientBalance marks withdrawals or refunds exceeding the
	// available pool.
	ErrInsufficientBalance = errors.New("launch: insufficient balance")
	// ErrStakedCapital blocks cancellation while capital sits with an
	// external validator. Unstaking must precede cancellation.
	ErrStakedCapital = errors.New("launch: capital is staked externally")
	// ErrWrongListing is returned when a supporter pass is presented to a
	// ledger it does not belong to.
	ErrWrongListing = errors.New("launch: pass does not belong to this listing")
	// ErrAlreadyRefunded rejects a double refund of the same deposit.
	ErrAlreadyRefunded = errors.New("launch: deposit already refunded")
	// ErrScheduleFinalized rejects a second schedule finalization.
	ErrScheduleFinalized = errors.New("launch: schedule already finalized")
	// ErrNoSchedule is returned when fee collection or release runs before
	// the schedule exists.
	ErrNoSchedule = errors.New("launch: schedule not finalized")
	// ErrFeeCollected rejects a second raise-fee collection.
	ErrFeeCollected = errors.New("launch: raise fee already collected")
	// ErrNoPrincipal rejects finalization of a listing with no deposits.
	ErrNoPrincipal = errors.New("launch: no principal deposited")
	// ErrTranchesPending blocks completion while unreleased tranches remain.
	ErrTranchesPending = errors.New("launch: unreleased tranches remain")
	// ErrNilPass rejects nil pass references.
	ErrNilPass = errors.New("launch: pass must not be nil")
	// ErrDepositNotFound marks refund attempts against unknown deposits.
	ErrDepositNotFound = errors.New("launch: deposit not found")
	// ErrCancelled blocks capital-flow operations on a cancelled listing.
	ErrCancelled = errors.New("launch: listing is cancelled")
	// ErrListingExists rejects creation of a listing whose identifier is
	// already registered.
	ErrListingExists = errors.New("launch: listing already exists")
	// ErrPassNotFound marks lookups for unknown or consumed passes.
	ErrPassNotFound = errors.New("launch: pass not found")
)
