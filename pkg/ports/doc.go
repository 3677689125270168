/*
Package ports defines the boundaries between the bridge and the host it runs in.

The bridge never reaches into simulation storage or the session transport
directly. It sees them only through these interfaces, and only from the tick
thread.

# Key Interfaces

  - World: the simulation handle passed to each tick.
  - Transport: the session transport that stores the token and connects.
  - Runner: the host's deferred-execution facility.
  - ProcessLister: enumerates running executables for port allocation.
  - SnapshotMirror: optional out-of-process copy of the ids map.
*/
package ports
