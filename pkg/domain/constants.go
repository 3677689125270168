package domain

// Ports.
const (
	// DefaultBasePort is the discovery port used when no sibling process is running.
	DefaultBasePort = 10000

	// DefaultConnectPort is the session server port. It is fixed by the
	// session protocol and unrelated to the bridge's own port.
	DefaultConnectPort = 10578
)

// DefaultProcessNames are the executables counted when allocating the port:
// the simulation host and the companion tool.
var DefaultProcessNames = []string{"SkyrimSE.exe", "SkyrimTogether.exe"}

// Header names read by the listener.
const (
	HeaderServerIP = "Together-Server-IP"
	HeaderToken    = "Strp-Token"
	HeaderMessage  = "Message"
)

// Routes exposed by the listener.
const (
	RouteConnect  = "/connect"
	RouteIdsMap   = "/getIdsMap"
	RouteLogInfo  = "/spdlogInfo"
	RouteHealth   = "/health"
	RouteMetrics  = "/metrics"
	EmptySnapshot = "{}"
)
