/*
Package engine implements Xacto's multi-version transactional key-value
store: blobs, keys, versions, the transaction manager, and the bucketed
version-chain map.

# Architecture

The package is organized around a single bucketed hash map whose entries
are per-key version chains:

	┌────────────────────────── Store ───────────────────────────┐
	│  [0] -> mapEntry -> mapEntry -> nil                         │
	│  [1] -> nil                                                 │
	│  ...                                                         │
	│  [7] -> mapEntry -> nil                                      │
	└──────────────────────────────────────────────────────────────┘
	          mapEntry{ key, versions: v0 -> v1 -> v2 -> nil }

Each version names a creator Transaction and carries a Blob value. A
transaction's status (PENDING, COMMITTED, ABORTED) determines whether its
versions are visible, collectible, or already gone. Concurrent PUT/GET
operations register dependencies between transactions so that commit can
block until every dependency has reached a terminal state, and an abort
cascades to every registered waiter.

Ownership is reference-counted throughout: Blob and Transaction are shared
and use explicit Acquire/Release; Key and version ownership transfer is
one-shot (consumed exactly once, as documented on each function).
*/
package engine
