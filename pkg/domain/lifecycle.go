package domain

// AppState is the coarse phase of the messenger startup and onboarding sequence.
// The messenger owns transitions; navstack only reads it.
type AppState string

const (
	AppStateInit                             AppState = "Init"
	AppStateClosed                           AppState = "Closed"
	AppStateOpeningWaitingForDaemon          AppState = "OpeningWaitingForDaemon"
	AppStateOpeningWaitingForClients         AppState = "OpeningWaitingForClients"
	AppStateOpeningListingEvents             AppState = "OpeningListingEvents"
	AppStateOpeningGettingLocalSettings      AppState = "OpeningGettingLocalSettings"
	AppStateOpeningMarkConversationsAsClosed AppState = "OpeningMarkConversationsAsClosed"
	AppStateGetStarted                       AppState = "GetStarted"
	AppStatePreReady                         AppState = "PreReady"
	AppStateReady                            AppState = "Ready"
	AppStateClosingDaemon                    AppState = "ClosingDaemon"
	AppStateDeletingClosingDaemon            AppState = "DeletingClosingDaemon"
	AppStateDeletingClearingStorage          AppState = "DeletingClearingStorage"
	AppStateStreamDone                       AppState = "StreamDone"
)

// AppStates lists every known state in startup order.
var AppStates = []AppState{
	AppStateInit,
	AppStateClosed,
	AppStateOpeningWaitingForDaemon,
	AppStateOpeningWaitingForClients,
	AppStateOpeningListingEvents,
	AppStateOpeningGettingLocalSettings,
	AppStateOpeningMarkConversationsAsClosed,
	AppStateGetStarted,
	AppStatePreReady,
	AppStateReady,
	AppStateClosingDaemon,
	AppStateDeletingClosingDaemon,
	AppStateDeletingClearingStorage,
	AppStateStreamDone,
}

// Known reports whether s is part of the enumeration.
func (s AppState) Known() bool {
	for _, k := range AppStates {
		if k == s {
			return true
		}
	}
	return false
}
