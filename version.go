package strpbridge

// Version is the bridge release. Overridden at build time with
// -ldflags "-X github.com/aretw0/strpbridge.Version=...".
var Version = "0.1.0"
