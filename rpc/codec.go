package rpc

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	nativecommon "launchpool/native/common"
	"launchpool/native/launch"
	"launchpool/native/registry"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps module errors onto HTTP status codes. Unknown errors are
// treated as internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, launch.ErrListingNotFound),
		errors.Is(err, launch.ErrPassNotFound),
		errors.Is(err, launch.ErrDepositNotFound),
		errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, launch.ErrNotAuthorized),
		errors.Is(err, registry.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, launch.ErrPaused),
		errors.Is(err, nativecommon.ErrModulePaused):
		return http.StatusServiceUnavailable
	case errors.Is(err, launch.ErrListingExists),
		errors.Is(err, registry.ErrExists),
		errors.Is(err, launch.ErrNotDraft),
		errors.Is(err, launch.ErrNotActive),
		errors.Is(err, launch.ErrNotFinalized),
		errors.Is(err, launch.ErrNotCancelled),
		errors.Is(err, launch.ErrCannotCancel),
		errors.Is(err, launch.ErrCancelled),
		errors.Is(err, launch.ErrScheduleFinalized),
		errors.Is(err, launch.ErrFeeCollected),
		errors.Is(err, launch.ErrTrancheNotReady),
		errors.Is(err, launch.ErrAlreadyReleased),
		errors.Is(err, launch.ErrAllTranchesReleased),
		errors.Is(err, launch.ErrTranchesPending),
		errors.Is(err, launch.ErrStakedCapital),
		errors.Is(err, launch.ErrAlreadyRefunded),
		errors.Is(err, launch.ErrNothingToClaim):
		return http.StatusConflict
	case errors.Is(err, launch.ErrInvalidAmount),
		errors.Is(err, launch.ErrBelowMinimum),
		errors.Is(err, launch.ErrInsufficientBalance),
		errors.Is(err, launch.ErrWrongListing),
		errors.Is(err, launch.ErrNilPass),
		errors.Is(err, launch.ErrNoPrincipal),
		errors.Is(err, launch.ErrNoSchedule):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseHash(value string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(value), "0x"))
	if err != nil {
		return out, fmt.Errorf("rpc: invalid hash %q", value)
	}
	if len(raw) != 32 {
		return out, fmt.Errorf("rpc: hash must be 32 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

func parseAddress(value string) ([20]byte, error) {
	var out [20]byte
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(value), "0x"))
	if err != nil {
		return out, fmt.Errorf("rpc: invalid address %q", value)
	}
	if len(raw) != 20 {
		return out, fmt.Errorf("rpc: address must be 20 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

func parseAmount(value string) (*big.Int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, fmt.Errorf("rpc: amount required")
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("rpc: invalid amount %q", value)
	}
	return amount, nil
}

func encodeHash(h [32]byte) string { return hex.EncodeToString(h[:]) }

func encodeAddr(a [20]byte) string { return hex.EncodeToString(a[:]) }

func encodeAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

type listingPayload struct {
	ID               string `json:"id"`
	Issuer           string `json:"issuer"`
	ReleaseRecipient string `json:"releaseRecipient"`
	Status           string `json:"status"`
	Paused           bool   `json:"paused"`
	RouteBps         uint32 `json:"routeBps"`
	TotalPrincipal   string `json:"totalPrincipal"`
	TotalShares      string `json:"totalShares"`
	ReleasedTotal    string `json:"releasedTotal"`
	GlobalIndex      string `json:"globalIndex"`
	TotalRewards     string `json:"totalRewards"`
	NextPassNumber   uint64 `json:"nextPassNumber"`
	CreatedAt        int64  `json:"createdAt"`
	UpdatedAt        int64  `json:"updatedAt"`
}

func encodeListing(l *launch.Listing) listingPayload {
	return listingPayload{
		ID:               encodeHash(l.ID),
		Issuer:           encodeAddr(l.Issuer),
		ReleaseRecipient: encodeAddr(l.ReleaseRecipient),
		Status:           l.Status.String(),
		Paused:           l.Paused,
		RouteBps:         l.RouteBps,
		TotalPrincipal:   encodeAmount(l.Capital.TotalPrincipal),
		TotalShares:      encodeAmount(l.Capital.TotalShares),
		ReleasedTotal:    encodeAmount(l.Capital.ReleasedTotal),
		GlobalIndex:      encodeAmount(l.Rewards.GlobalIndex),
		TotalRewards:     encodeAmount(l.Rewards.TotalDeposited),
		NextPassNumber:   l.NextPassNumber,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

type passPayload struct {
	ListingID      string `json:"listingId"`
	PassNumber     uint64 `json:"passNumber"`
	OriginalBacker string `json:"originalBacker"`
	DepositID      uint64 `json:"depositId"`
	Shares         string `json:"shares"`
	Checkpoint     string `json:"checkpoint"`
	TotalClaimed   string `json:"totalClaimed"`
	MintedAt       int64  `json:"mintedAt"`
}

func encodePass(p *launch.SupporterPass) passPayload {
	return passPayload{
		ListingID:      encodeHash(p.ListingID),
		PassNumber:     p.PassNumber,
		OriginalBacker: encodeAddr(p.OriginalBacker),
		DepositID:      p.DepositID,
		Shares:         encodeAmount(p.Shares),
		Checkpoint:     encodeAmount(p.Checkpoint),
		TotalClaimed:   encodeAmount(p.TotalClaimed),
		MintedAt:       p.MintedAt,
	}
}

func decodeBody(r *http.Request, out interface{}) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("rpc: invalid request body: %w", err)
	}
	return nil
}
