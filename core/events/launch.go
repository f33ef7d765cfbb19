package events

const (
	// TypeRegistryListed is emitted when a listing is catalogued in the
	// public registry.
	TypeRegistryListed = "launch.registry.listed"
	// TypeRegistryUpdated is emitted when a catalogued listing's summary is
	// refreshed.
	TypeRegistryUpdated = "launch.registry.updated"
)

// RegistryListed captures the key metadata of a newly catalogued listing.
type RegistryListed struct {
	ID     [32]byte
	Issuer [20]byte
	Name   string
}

// EventType implements the Event interface.
func (RegistryListed) EventType() string { return TypeRegistryListed }

// RegistryUpdated captures a summary refresh for a catalogued listing.
type RegistryUpdated struct {
	ID     [32]byte
	Status uint8
}

// EventType implements the Event interface.
func (RegistryUpdated) EventType() string { return TypeRegistryUpdated }
