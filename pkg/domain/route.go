package domain

// RouteName identifies a navigable screen slot.
type RouteName string

const (
	// Onboarding
	RouteOnboardingGetStarted    RouteName = "Onboarding.GetStarted"
	RouteOnboardingCreateAccount RouteName = "Onboarding.CreateAccount"
	RouteOnboardingSetupFinished RouteName = "Onboarding.SetupFinished"

	// Main
	RouteMainHome                  RouteName = "Main.Home"
	RouteMainContactRequest        RouteName = "Main.ContactRequest"
	RouteMainScan                  RouteName = "Main.Scan"
	RouteMainNetworkOptions        RouteName = "Main.NetworkOptions"
	RouteMainPermissions           RouteName = "Main.Permissions"
	RouteMainCreateGroupAddMembers RouteName = "Main.CreateGroupAddMembers"
	RouteMainCreateGroupFinalize   RouteName = "Main.CreateGroupFinalize"

	// Chat
	RouteChatOneToOne                      RouteName = "Chat.OneToOne"
	RouteChatGroup                         RouteName = "Chat.Group"
	RouteChatOneToOneSettings              RouteName = "Chat.OneToOneSettings"
	RouteChatContactSettings               RouteName = "Chat.ContactSettings"
	RouteGroupMultiMemberSettings          RouteName = "Group.MultiMemberSettings"
	RouteChatMultiMemberQR                 RouteName = "Chat.MultiMemberQR"
	RouteGroupMultiMemberSettingsAddMember RouteName = "Group.MultiMemberSettingsAddMembers"
	RouteChatReplicateGroupSettings        RouteName = "Chat.ReplicateGroupSettings"
	RouteChatSharedMedias                  RouteName = "Chat.SharedMedias"

	// Settings
	RouteSettingsHome                RouteName = "Settings.Home"
	RouteSettingsMyBertyID           RouteName = "Settings.MyBertyId"
	RouteSettingsAppUpdates          RouteName = "Settings.AppUpdates"
	RouteSettingsHelp                RouteName = "Settings.Help"
	RouteSettingsAboutBerty          RouteName = "Settings.AboutBerty"
	RouteSettingsTermsOfUse          RouteName = "Settings.TermsOfUse"
	RouteSettingsMode                RouteName = "Settings.Mode"
	RouteSettingsNetworkMap          RouteName = "Settings.NetworkMap"
	RouteSettingsServicesAuth        RouteName = "Settings.ServicesAuth"
	RouteSettingsDeleteAccount       RouteName = "Settings.DeleteAccount"
	RouteSettingsNotifications       RouteName = "Settings.Notifications"
	RouteSettingsBluetooth           RouteName = "Settings.Bluetooth"
	RouteSettingsNetworkConfig       RouteName = "Settings.NetworkConfig"
	RouteSettingsDevTools            RouteName = "Settings.DevTools"
	RouteSettingsFakeData            RouteName = "Settings.FakeData"
	RouteSettingsThemeEditor         RouteName = "Settings.ThemeEditor"
	RouteSettingsSystemInfo          RouteName = "Settings.SystemInfo"
	RouteSettingsAddDevConversations RouteName = "Settings.AddDevConversations"
	RouteSettingsIpfsWebUI           RouteName = "Settings.IpfsWebUI"
	RouteSettingsDevText             RouteName = "Settings.DevText"
	RouteSettingsReplicationServices RouteName = "Settings.ReplicationServices"
	RouteSettingsRoadmap             RouteName = "Settings.Roadmap"
	RouteSettingsFaq                 RouteName = "Settings.Faq"

	// Modals
	RouteModalsManageDeepLink RouteName = "Modals.ManageDeepLink"
	RouteModalsImageView      RouteName = "Modals.ImageView"
)

// Route is one entry of the navigation stack.
type Route struct {
	Name   RouteName      `json:"name" yaml:"name"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// Clone returns a copy of the route with its own params map.
func (r Route) Clone() Route {
	out := Route{Name: r.Name}
	if r.Params != nil {
		out.Params = make(map[string]any, len(r.Params))
		for k, v := range r.Params {
			out.Params[k] = v
		}
	}
	return out
}
