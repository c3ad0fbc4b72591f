/*
Package ports defines the interfaces between the simulator core and its adapters.

  - ConfigSource: where machine configurations come from (file, memory).
  - SnapshotStore: where hosted sessions keep their current machine (memory, file, redis).
  - DistributedLocker: cross-process serialization of a session (redis).
*/
package ports
