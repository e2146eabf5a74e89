/*
Package observability turns navigation lifecycle hooks into Prometheus metrics.

Metrics.Hooks returns a domain.LifecycleHooks value that can be merged with any
other hooks (logging, event streaming) and handed to the navigator, the
lifecycle router, the deep-link bridges and the services-auth form.
*/
package observability
