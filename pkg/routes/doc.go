/*
Package routes associates route names with screen components and header chrome.

The table is built once at startup from a list of Definitions. Decorators are
applied uniformly to every component while building, which is how the
deep-link bridge gets attached to every screen:

	table, err := routes.Berty(screens, routes.WithDeepLinkBridge(source))

The table never decides anything at runtime beyond theme and title
substitution in Chrome.Resolve.
*/
package routes
