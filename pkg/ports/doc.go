/*
Package ports defines the driven ports (interfaces) for the abacus engine.

These interfaces decouple the hosts from storage and coordination backends, so
the same session logic runs against memory, files or Redis.

# Key Interfaces

  - Calculator: the stateless engine surface consumed by HTTP and MCP adapters.
  - StateStore: persists and loads session State snapshots.
  - DistributedLocker: serializes access to a session across replicas.
*/
package ports
