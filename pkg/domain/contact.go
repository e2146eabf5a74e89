package domain

// Contact is a member candidate in the group-creation flow.
type Contact struct {
	PublicKey   string `json:"public_key" mapstructure:"public_key"`
	DisplayName string `json:"display_name,omitempty" mapstructure:"display_name"`
}

// Service is an authentication service already registered on the account.
type Service struct {
	TokenID           string `json:"token_id"`
	ServiceType       string `json:"service_type"`
	AuthenticationURL string `json:"authentication_url"`
}
