/*
Package bridge defines the message contract between the sandboxed content
view and the host, and the transports that carry it.

# Contract

The channel is one-directional (content to host), asynchronous, and ordered
within a session. There is no delivery-time guarantee and no acknowledgment.
The only actionable message kind is "height":

	{ "type": "height", "height": 142, "timestamp": 1712345678901 }

Any other type, or a missing or non-positive height, is rejected at decode
time and discarded by the host.

# Transports

Two transports ship with the library:

  - Channel: an in-process ordered bridge used when the sandbox runs inside
    the host process (the embedded script runtime).
  - Endpoint: a WebSocket ingest for browser-hosted sandboxes, with
    per-connection rate limiting and connection metrics.

Both preserve order, which the host receiver's delta filtering relies on.
If a transport without ordering guarantees is ever added, messages must gain
a monotonic sequence number and the receiver must drop stale ones.
*/
package bridge
