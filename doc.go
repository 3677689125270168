/*
Package strpbridge is a loopback-only control plane for a tick-driven simulation host.

A companion process running next to the simulation can ask it to join a remote
session, or read which local entities map to which remote players, without ever
executing code on the simulation thread itself.

# Concept

The listener accepts plain GET requests on 127.0.0.1 and turns them into commands
in a queue. The host calls Bridge.OnUpdate once per tick; the bridge drains the
queue and applies every command, in order, on that thread. Snapshots travel the
other way: a refresh command computes the ids map on the tick and publishes it to
a store the listener reads from.

# Port discovery

The listening port is 10000 plus the number of sibling simulation and companion
processes running on the host, so the n-th instance can be found at 10000+n.

# Usage

	b, err := strpbridge.New(strpbridge.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := b.Start(ctx); err != nil {
		return err
	}
	defer b.Stop(context.Background())

	// In the host's update loop:
	b.OnUpdate(world)

# Routes

  - GET /connect: Together-Server-IP and optional Strp-Token headers queue a connect.
  - GET /getIdsMap: queues a refresh and returns the current ids map.
  - GET /spdlogInfo: writes the Message header to the log.
*/
package strpbridge
