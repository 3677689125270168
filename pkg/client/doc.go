/*
Package client talks to a running bridge from the companion side.

It can discover the bridge port with any allocator that counts sibling
processes the way the bridge does, and wraps the loopback routes:

	c := client.New(client.Discover(ctx, alloc))
	err := c.Connect(ctx, "1.2.3.4", nil)
	ids, err := c.WaitIdsMap(ctx, 5, 200*time.Millisecond)

The ids map is refreshed on the simulation's next tick, so a single IdsMap call
right after startup returns an empty map. WaitIdsMap polls for that reason.
*/
package client
