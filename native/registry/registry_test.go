package registry

import (
	"errors"
	"testing"

	"launchpool/core/events"
	nativecommon "launchpool/native/common"
	"launchpool/storage"
)

func addr(last byte) [20]byte {
	var out [20]byte
	out[19] = last
	return out
}

type stubPauses struct {
	paused bool
}

func (s *stubPauses) IsPaused(module string) bool { return s.paused }

type captureEmitter struct {
	events []events.Event
}

func (c *captureEmitter) Emit(evt events.Event) { c.events = append(c.events, evt) }

func newTestRegistry() (*Registry, *storage.KVStore) {
	kv := storage.NewKVStore(storage.NewMemDB())
	return NewRegistry(kv), kv
}

func TestRegisterValidation(t *testing.T) {
	registry, _ := newTestRegistry()
	issuer := addr(0x01)

	if err := registry.Register(issuer, nil); !errors.Is(err, ErrNilSummary) {
		t.Fatalf("nil summary: %v", err)
	}
	if err := registry.Register(issuer, &Summary{ID: [32]byte{0x01}, Issuer: issuer, Name: "   "}); err == nil {
		t.Fatalf("blank name accepted")
	}
	if err := registry.Register(issuer, &Summary{Issuer: issuer, Name: "solar farm"}); err == nil {
		t.Fatalf("zero id accepted")
	}
	if err := registry.Register(issuer, &Summary{ID: [32]byte{0x01}, Name: "solar farm"}); err == nil {
		t.Fatalf("zero issuer accepted")
	}
}

func TestRegisterAuthorization(t *testing.T) {
	registry, kv := newTestRegistry()
	issuer := addr(0x01)
	stranger := addr(0x02)
	admin := addr(0x03)
	summary := &Summary{ID: [32]byte{0x01}, Issuer: issuer, Name: "solar farm", CreatedAt: 1_700_000_000}

	if err := registry.Register(stranger, summary); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("stranger registration: %v", err)
	}
	if err := registry.Register(issuer, summary); err != nil {
		t.Fatalf("issuer registration failed: %v", err)
	}
	if err := registry.Register(issuer, summary); !errors.Is(err, ErrExists) {
		t.Fatalf("double registration: %v", err)
	}

	adminAddr := admin
	if err := kv.RoleGrant("ROLE_LAUNCH_ADMIN", adminAddr[:]); err != nil {
		t.Fatalf("role grant failed: %v", err)
	}
	second := &Summary{ID: [32]byte{0x02}, Issuer: issuer, Name: "wind farm"}
	if err := registry.Register(admin, second); err != nil {
		t.Fatalf("admin registration failed: %v", err)
	}
}

func TestUpdateStatusAndList(t *testing.T) {
	registry, _ := newTestRegistry()
	emitter := &captureEmitter{}
	registry.SetEmitter(emitter)
	issuer := addr(0x01)

	first := &Summary{ID: [32]byte{0x01}, Issuer: issuer, Name: "solar farm"}
	second := &Summary{ID: [32]byte{0x02}, Issuer: issuer, Name: "wind farm"}
	if err := registry.Register(issuer, first); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := registry.Register(issuer, second); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := registry.UpdateStatus(issuer, [32]byte{0xFF}, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update of unknown listing: %v", err)
	}
	if err := registry.UpdateStatus(addr(0x09), first.ID, 1); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("stranger update: %v", err)
	}
	if err := registry.UpdateStatus(issuer, first.ID, 2); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, ok, err := registry.Get(first.ID)
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if got.Status != 2 || got.Name != "solar farm" {
		t.Fatalf("summary mismatch: %+v", got)
	}

	all, err := registry.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != first.ID || all[1].ID != second.ID {
		t.Fatalf("list mismatch: %+v", all)
	}

	if len(emitter.events) != 3 {
		t.Fatalf("event count %d, expected 3", len(emitter.events))
	}
	updated, ok := emitter.events[2].(events.RegistryUpdated)
	if !ok || updated.Status != 2 {
		t.Fatalf("last event %+v", emitter.events[2])
	}
}

func TestRegistryPauseGuard(t *testing.T) {
	registry, _ := newTestRegistry()
	pauses := &stubPauses{paused: true}
	registry.SetPauses(pauses)
	issuer := addr(0x01)
	summary := &Summary{ID: [32]byte{0x01}, Issuer: issuer, Name: "solar farm"}

	if err := registry.Register(issuer, summary); !errors.Is(err, nativecommon.ErrModulePaused) {
		t.Fatalf("register while paused: %v", err)
	}
	pauses.paused = false
	if err := registry.Register(issuer, summary); err != nil {
		t.Fatalf("register after resume failed: %v", err)
	}
	pauses.paused = true
	if err := registry.UpdateStatus(issuer, summary.ID, 1); !errors.Is(err, nativecommon.ErrModulePaused) {
		t.Fatalf("update while paused: %v", err)
	}
}
