package ports

import (
	"iter"

	"github.com/aretw0/strpbridge/pkg/domain"
)

// World is the simulation handle. It is only used on the tick thread.
type World interface {
	// Identities yields every live entity that carries both a player/session
	// identity and a persistent form identity. The sequence is lazy, finite
	// and may be iterated more than once.
	Identities() iter.Seq[domain.Identity]

	// Transport returns the session transport.
	Transport() Transport

	// Runner returns the host's deferred-execution facility.
	Runner() Runner
}

// Transport is the session transport boundary. The bridge does not wait for,
// or observe the result of, either call.
type Transport interface {
	// SetToken stores the credential used by the next connection attempt.
	SetToken(token string)

	// Connect starts a connection to endpoint ("host:port").
	Connect(endpoint string)
}

// Runner schedules work to run later on the simulation thread.
type Runner interface {
	Queue(fn func())
}
