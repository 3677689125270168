package domain

// Identity pairs the two identifiers the ids map exposes for a live entity.
type Identity struct {
	// LocalID is the persistent form identity, used as the map key.
	LocalID uint32
	// RemoteID is the player/session identity assigned by the server.
	RemoteID uint32
}
