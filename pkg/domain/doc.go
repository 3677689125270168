/*
Package domain contains the core value types of the bridge.

It defines the commands a companion process can queue for the simulation,
the identity pairs published in the ids map, and the wire constants shared by
the listener, the tick consumer and the companion client. This package is kept
pure and free of I/O.

# Key Entities

  - Command: a queued operation (ConnectCommand or RefreshSnapshotCommand).
  - Identity: one live entity's local form identity and remote session identity.
*/
package domain
