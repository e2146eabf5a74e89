/*
Package session serializes access to persisted navigation stacks.

One stack exists per session (one per app instance). The Manager guards
read-modify-write cycles with a per-session mutex, reference counted so idle
sessions leave nothing behind, and optionally with a distributed lock when
several replicas share a store.
*/
package session
