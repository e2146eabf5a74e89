/*
Package ports defines the driven ports (interfaces) for the navstack runtime.

These interfaces decouple the navigation core from external implementations,
allowing it to run against an in-process OS emulation, an HTTP host or a real
mobile bridge, and to persist stacks in memory, bbolt or Redis.

# Key Interfaces

  - Dispatcher: the navigation dispatch surface (navigate, reset, back).
  - LinkSource: the OS deep-link signal (launch URL + "URL opened" stream).
  - Messenger: the external messenger context (app state, services auth).
  - StateStore: persists navigation stacks per session.
  - DistributedLocker: coordinates stack writes across replicas.
*/
package ports
