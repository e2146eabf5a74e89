package routes

import (
	"fmt"

	"github.com/aretw0/navstack/pkg/domain"
)

func title(s string) *string { return &s }

func hidden(p Presentation) Chrome {
	return Chrome{Profile: ProfileDefault, HideHeader: true, Presentation: p}
}

func background(t string, large bool, p Presentation) Chrome {
	return Chrome{Profile: ProfileBackground, Title: title(t), LargeTitle: large, Presentation: p}
}

func altBackground(t string) Chrome {
	return Chrome{Profile: ProfileAltBackground, Title: title(t), LargeTitle: true, Presentation: PresentationFormSheet}
}

// BertyChrome lists the header chrome of every messenger route, in registration order.
func BertyChrome() []Definition {
	const sheet = PresentationFormSheet
	return []Definition{
		// Onboarding
		{Name: domain.RouteOnboardingGetStarted, Chrome: hidden("")},
		{Name: domain.RouteOnboardingCreateAccount, Chrome: hidden("")},
		{Name: domain.RouteOnboardingSetupFinished, Chrome: hidden("")},

		// Main
		{Name: domain.RouteMainHome, Chrome: hidden("")},
		{Name: domain.RouteMainContactRequest, Chrome: Chrome{Profile: ProfileDefault}},
		{Name: domain.RouteMainScan, Chrome: Chrome{
			Profile:         ProfileSecondaryBackground,
			Title:           title("main.scan.title"),
			HeaderRightIcon: "qr",
			Presentation:    sheet,
		}},
		{Name: domain.RouteMainNetworkOptions, Chrome: hidden(sheet)},
		{Name: domain.RouteMainPermissions, Chrome: hidden(sheet)},
		{Name: domain.RouteMainCreateGroupAddMembers, Chrome: Chrome{
			Profile:         ProfileBackground,
			Title:           title("main.home.create-group.title"),
			LargeTitle:      true,
			HeaderRightIcon: "users",
			Presentation:    sheet,
		}},
		{Name: domain.RouteMainCreateGroupFinalize, Chrome: Chrome{
			Profile:         ProfileBackground,
			Title:           title("main.home.create-group.title"),
			LargeTitle:      true,
			HeaderRightIcon: "users",
			Presentation:    sheet,
		}},

		// Chat
		{Name: domain.RouteChatOneToOne, Chrome: Chrome{Profile: ProfileMain}},
		{Name: domain.RouteChatGroup, Chrome: Chrome{Profile: ProfileMain}},
		{Name: domain.RouteChatOneToOneSettings, Chrome: background("", false, sheet)},
		{Name: domain.RouteChatContactSettings, Chrome: background("", false, sheet)},
		{Name: domain.RouteGroupMultiMemberSettings, Chrome: background("", false, sheet)},
		{Name: domain.RouteChatMultiMemberQR, Chrome: background("chat.multi-member-qr.title", true, sheet)},
		{Name: domain.RouteGroupMultiMemberSettingsAddMember, Chrome: background("chat.add-members.members", true, sheet)},
		{Name: domain.RouteChatReplicateGroupSettings, Chrome: background("chat.replicate-group-settings.title", true, sheet)},
		{Name: domain.RouteChatSharedMedias, Chrome: background("chat.shared-medias.title", true, sheet)},

		// Settings
		{Name: domain.RouteSettingsHome, Chrome: background("", false, "")},
		{Name: domain.RouteSettingsMyBertyID, Chrome: background("My Berty ID", false, sheet)},
		{Name: domain.RouteSettingsAppUpdates, Chrome: background("settings.updates.title", true, sheet)},
		{Name: domain.RouteSettingsHelp, Chrome: Chrome{
			Profile:      ProfileSecondaryBackground,
			Title:        title("settings.help.title"),
			LargeTitle:   true,
			Presentation: sheet,
		}},
		{Name: domain.RouteSettingsAboutBerty, Chrome: background("settings.about.title", true, sheet)},
		{Name: domain.RouteSettingsTermsOfUse, Chrome: background("Terms of use", true, sheet)},
		{Name: domain.RouteSettingsMode, Chrome: background("settings.mode.title", true, "")},
		{Name: domain.RouteSettingsNetworkMap, Chrome: altBackground("settings.network-map.title")},
		{Name: domain.RouteSettingsServicesAuth, Chrome: background("settings.services-auth.title", true, sheet)},
		{Name: domain.RouteSettingsDeleteAccount, Chrome: hidden(sheet)},
		{Name: domain.RouteSettingsNotifications, Chrome: background("settings.notifications.title", true, sheet)},
		{Name: domain.RouteSettingsBluetooth, Chrome: background("settings.bluetooth.title", true, sheet)},
		{Name: domain.RouteSettingsNetworkConfig, Chrome: background("settings.network-config.title", true, sheet)},
		{Name: domain.RouteSettingsDevTools, Chrome: altBackground("settings.devtools.title")},
		{Name: domain.RouteSettingsFakeData, Chrome: altBackground("settings.fake-data.title")},
		{Name: domain.RouteSettingsThemeEditor, Chrome: altBackground("settings.theme-editor.title")},
		{Name: domain.RouteSettingsSystemInfo, Chrome: altBackground("settings.system-info.title")},
		{Name: domain.RouteSettingsAddDevConversations, Chrome: altBackground("settings.add-dev-conversations.title")},
		{Name: domain.RouteSettingsIpfsWebUI, Chrome: altBackground("settings.ipfs-webui.title")},
		{Name: domain.RouteSettingsDevText, Chrome: altBackground("")},
		{Name: domain.RouteSettingsReplicationServices, Chrome: hidden(sheet)},
		{Name: domain.RouteSettingsRoadmap, Chrome: background("settings.roadmap.title", true, sheet)},
		{Name: domain.RouteSettingsFaq, Chrome: background("settings.faq.title", true, sheet)},

		// Modals
		{Name: domain.RouteModalsManageDeepLink, Chrome: Chrome{
			Profile:      ProfileDefault,
			HideHeader:   true,
			Presentation: PresentationContainedTransparentModal,
			Animation:    "fade",
		}},
		{Name: domain.RouteModalsImageView, Chrome: hidden(PresentationContainedTransparentModal)},
	}
}

// Berty builds the messenger route table from the supplied screens.
// Every route of BertyChrome must have a screen.
func Berty(screens Screens, decorators ...Decorator) (*Table, error) {
	defs := BertyChrome()
	for i := range defs {
		c, ok := screens[defs[i].Name]
		if !ok {
			return nil, fmt.Errorf("no screen supplied for route %s", defs[i].Name)
		}
		defs[i].Component = c
	}
	return NewTable(defs, decorators...)
}
