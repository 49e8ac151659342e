/*
Package cache orchestrates the compiled-factory cache.

A Manager serializes "load or compile" per SHA key, so concurrent requests for the
same diagram compile it once. Keys are locked in process with reference-counted
mutexes and, when a ports.DistributedLocker is configured, across replicas sharing
the same FactoryStore.
*/
package cache
