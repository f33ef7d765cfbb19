package launch

import (
	"encoding/hex"
	"math/big"
	"strconv"

	"launchpool/core/types"
)

const (
	EventTypeListingCreated   = "launch.listing.created"
	EventTypeListingActivated = "launch.listing.activated"
	EventTypeListingPaused    = "launch.listing.paused"
	EventTypeListingResumed   = "launch.listing.resumed"
	EventTypeDeposit          = "launch.deposit"
	EventTypeFinalized        = "launch.finalized"
	EventTypeFeeCollected     = "launch.fee.collected"
	EventTypeTrancheReleased  = "launch.tranche.released"
	EventTypeRewardsDeposited = "launch.rewards.deposited"
	EventTypeClaimed          = "launch.claimed"
	EventTypeCancelled        = "launch.cancelled"
	EventTypeRefunded         = "launch.refunded"
	EventTypeCompleted        = "launch.completed"
)

func listingAttributes(l *Listing) map[string]string {
	attrs := map[string]string{
		"listingId": hex.EncodeToString(l.ID[:]),
		"status":    l.Status.String(),
	}
	return attrs
}

func amountAttr(attrs map[string]string, key string, amount *big.Int) map[string]string {
	if amount != nil {
		attrs[key] = amount.String()
	} else {
		attrs[key] = "0"
	}
	return attrs
}

// NewListingEvent returns a canonical lifecycle event for the supplied type.
func NewListingEvent(eventType string, l *Listing) *types.Event {
	return &types.Event{Type: eventType, Attributes: listingAttributes(l)}
}

// NewDepositEvent captures a backer deposit and the minted pass.
func NewDepositEvent(l *Listing, pass *SupporterPass) *types.Event {
	attrs := listingAttributes(l)
	attrs["backer"] = hex.EncodeToString(pass.OriginalBacker[:])
	attrs["passNumber"] = strconv.FormatUint(pass.PassNumber, 10)
	amountAttr(attrs, "shares", pass.Shares)
	return &types.Event{Type: EventTypeDeposit, Attributes: attrs}
}

// NewFeeCollectedEvent captures the raise-fee transfer to the treasury.
func NewFeeCollectedEvent(l *Listing, amount *big.Int) *types.Event {
	attrs := amountAttr(listingAttributes(l), "amount", amount)
	return &types.Event{Type: EventTypeFeeCollected, Attributes: attrs}
}

// NewTrancheReleasedEvent captures a single tranche release.
func NewTrancheReleasedEvent(l *Listing, index int, amount *big.Int) *types.Event {
	attrs := amountAttr(listingAttributes(l), "amount", amount)
	attrs["index"] = strconv.Itoa(index)
	return &types.Event{Type: EventTypeTrancheReleased, Attributes: attrs}
}

// NewRewardsDepositedEvent captures a revenue injection into the reward vault.
func NewRewardsDepositedEvent(l *Listing, amount, treasuryShare *big.Int) *types.Event {
	attrs := amountAttr(listingAttributes(l), "amount", amount)
	amountAttr(attrs, "treasuryShare", treasuryShare)
	return &types.Event{Type: EventTypeRewardsDeposited, Attributes: attrs}
}

// NewClaimedEvent captures a reward claim against a pass.
func NewClaimedEvent(l *Listing, pass *SupporterPass, holder [20]byte, amount *big.Int) *types.Event {
	attrs := amountAttr(listingAttributes(l), "amount", amount)
	attrs["passNumber"] = strconv.FormatUint(pass.PassNumber, 10)
	attrs["holder"] = hex.EncodeToString(holder[:])
	return &types.Event{Type: EventTypeClaimed, Attributes: attrs}
}

// NewClaimedManyEvent captures the aggregate payout of a batch claim.
func NewClaimedManyEvent(l *Listing, holder [20]byte, total *big.Int) *types.Event {
	attrs := amountAttr(listingAttributes(l), "amount", total)
	attrs["holder"] = hex.EncodeToString(holder[:])
	return &types.Event{Type: EventTypeClaimed, Attributes: attrs}
}

// NewRefundedEvent captures a refund paid against a consumed pass.
func NewRefundedEvent(l *Listing, pass *SupporterPass, holder [20]byte, amount *big.Int) *types.Event {
	attrs := amountAttr(listingAttributes(l), "amount", amount)
	attrs["passNumber"] = strconv.FormatUint(pass.PassNumber, 10)
	attrs["holder"] = hex.EncodeToString(holder[:])
	return &types.Event{Type: EventTypeRefunded, Attributes: attrs}
}
