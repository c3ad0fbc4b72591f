/*
Package session hosts many machines behind one process.

Each session owns one machine, persisted as a Snapshot in a ports.SnapshotStore.
The Manager serializes every operation on a session with a per-session mutex and,
optionally, a distributed lock, so the single-writer rule of the engine holds even
when the HTTP or MCP host serves concurrent requests or runs as several replicas.
*/
package session
