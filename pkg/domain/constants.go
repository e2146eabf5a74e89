package domain

// ServicesAuthPrefix marks URLs that belong to the internal services-authentication
// flow. They are never treated as generic deep links.
const ServicesAuthPrefix = "berty://services-auth"

// Action sources.
const (
	SourceLifecycle = "lifecycle"
	SourceDeepLink  = "deeplink"
	SourceHost      = "host"
)
