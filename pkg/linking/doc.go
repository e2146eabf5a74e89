/*
Package linking turns OS deep-link signals into navigation actions.

A Listener captures the launch URL and every later "URL opened" event into a
reactive Snapshot. A Bridge observes one Listener and, for every qualifying
URL, dispatches a single navigate action towards the deep-link modal through
the navigation handle of the screen it is mounted on.

# Usage

	l := linking.NewListener(source)
	b := linking.NewBridge(l, nav, linking.WithScreen(domain.RouteMainHome))
	b.Mount(ctx)
	defer b.Unmount()
*/
package linking
