/*
Package ports defines the driven ports (interfaces) of faustbox.

These interfaces decouple compilation from storage and transport, allowing the
factory cache and the remote adapters to work with various backends.

# Key Interfaces

  - FactoryStore: persists compiled factories by SHA key (memory, file, Redis).
  - DistributedLocker: coordinates concurrent compilations of the same key across replicas.
  - DiagramLoader: reads diagram documents from a library (e.g. Loam).
  - CompileService: the compile-and-cache entry point used by HTTP and MCP adapters.
*/
package ports
