package registry

import (
	"errors"
	"fmt"
	"strings"

	"launchpool/core/events"
	nativecommon "launchpool/native/common"
)

const moduleName = "launchregistry"

// roleLaunchAdmin may catalogue and update listings on behalf of any issuer.
const roleLaunchAdmin = "ROLE_LAUNCH_ADMIN"

var (
	// ErrNilSummary rejects nil summaries.
	ErrNilSummary = errors.New("registry: nil summary")
	// ErrUnauthorized marks callers that are neither the issuer nor a launch
	// admin.
	ErrUnauthorized = errors.New("registry: unauthorized")
	// ErrExists rejects double registration of one listing.
	ErrExists = errors.New("registry: listing already catalogued")
	// ErrNotFound marks lookups for uncatalogued listings.
	ErrNotFound = errors.New("registry: listing not catalogued")
)

// Storage abstracts the subset of state manager functionality required by the
// registry.
type Storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVAppend(key []byte, value []byte) error
	KVGetList(key []byte, out interface{}) error
	HasRole(role string, addr []byte) bool
}

var (
	summaryPrefix = []byte("registry/listing/")
	indexKey      = []byte("registry/listing/index")
)

func summaryKey(id [32]byte) []byte {
	return []byte(fmt.Sprintf("%s%x", summaryPrefix, id))
}

// Summary is the public catalogue record of a listing. It duplicates only
// what a directory needs; the ledgers stay with the launch module.
type Summary struct {
	ID        [32]byte
	Issuer    [20]byte
	Name      string
	Status    uint8
	CreatedAt uint64
}

// Clone returns a copy of the summary.
func (s *Summary) Clone() *Summary {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

func sanitizeSummary(s *Summary) (*Summary, error) {
	if s == nil {
		return nil, ErrNilSummary
	}
	clone := s.Clone()
	clone.Name = strings.TrimSpace(clone.Name)
	if clone.Name == "" {
		return nil, fmt.Errorf("registry: name required")
	}
	if clone.ID == ([32]byte{}) {
		return nil, fmt.Errorf("registry: listing id required")
	}
	if clone.Issuer == ([20]byte{}) {
		return nil, fmt.Errorf("registry: issuer required")
	}
	return clone, nil
}

// Registry catalogues listings for discovery. Writes are pause-guarded and
// restricted to the issuer or a launch admin.
type Registry struct {
	st      Storage
	pauses  nativecommon.PauseView
	emitter events.Emitter
}

// NewRegistry constructs a registry bound to the provided storage backend.
func NewRegistry(st Storage) *Registry {
	return &Registry{st: st, emitter: events.NoopEmitter{}}
}

// SetEmitter configures the event emitter used to broadcast catalogue
// updates. Passing nil resets the emitter to a no-op implementation.
func (r *Registry) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		r.emitter = events.NoopEmitter{}
		return
	}
	r.emitter = emitter
}

// SetPauses configures the protocol-wide pause view.
func (r *Registry) SetPauses(p nativecommon.PauseView) {
	if r == nil {
		return
	}
	r.pauses = p
}

// Register catalogues a new listing. Only the issuer or a caller with
// ROLE_LAUNCH_ADMIN may register on behalf of the issuer.
func (r *Registry) Register(caller [20]byte, s *Summary) error {
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return err
	}
	sanitized, err := sanitizeSummary(s)
	if err != nil {
		return err
	}
	if caller != sanitized.Issuer && !r.st.HasRole(roleLaunchAdmin, caller[:]) {
		return ErrUnauthorized
	}
	exists, err := r.st.KVGet(summaryKey(sanitized.ID), new(Summary))
	if err != nil {
		return err
	}
	if exists {
		return ErrExists
	}
	if err := r.st.KVPut(summaryKey(sanitized.ID), sanitized); err != nil {
		return err
	}
	if err := r.st.KVAppend(indexKey, sanitized.ID[:]); err != nil {
		return err
	}
	r.emitter.Emit(events.RegistryListed{ID: sanitized.ID, Issuer: sanitized.Issuer, Name: sanitized.Name})
	return nil
}

// UpdateStatus refreshes the catalogued lifecycle status of a listing.
func (r *Registry) UpdateStatus(caller [20]byte, id [32]byte, status uint8) error {
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return err
	}
	existing := new(Summary)
	found, err := r.st.KVGet(summaryKey(id), existing)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	if caller != existing.Issuer && !r.st.HasRole(roleLaunchAdmin, caller[:]) {
		return ErrUnauthorized
	}
	existing.Status = status
	if err := r.st.KVPut(summaryKey(id), existing); err != nil {
		return err
	}
	r.emitter.Emit(events.RegistryUpdated{ID: id, Status: status})
	return nil
}

// Get returns the catalogued summary for a listing.
func (r *Registry) Get(id [32]byte) (*Summary, bool, error) {
	summary := new(Summary)
	ok, err := r.st.KVGet(summaryKey(id), summary)
	if err != nil || !ok {
		return nil, false, err
	}
	return summary, true, nil
}

// List returns every catalogued summary in registration order.
func (r *Registry) List() ([]*Summary, error) {
	var ids [][]byte
	if err := r.st.KVGetList(indexKey, &ids); err != nil {
		return nil, err
	}
	out := make([]*Summary, 0, len(ids))
	for _, raw := range ids {
		if len(raw) != 32 {
			continue
		}
		var id [32]byte
		copy(id[:], raw)
		summary, ok, err := r.Get(id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, summary)
		}
	}
	return out, nil
}
