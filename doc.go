/*
Package navstack is the navigation core of a messenger app: a stack of named routes
driven by three inputs, each handled by its own component.

  - Lifecycle: the messenger's coarse app state (GetStarted, PreReady, Ready, ...).
    Entering a managed state resets the whole stack to that state's root screen.
  - Deep links: URLs the OS delivers, at launch or while running. While the app is
    Ready and on the main flow, each URL opens the deep-link modal exactly once.
  - Host actions: navigate and back, from the screens themselves or from the
    HTTP and MCP adapters.

# Architecture

The App wires a static route table (pkg/routes) to a single-threaded navigator
(internal/runtime). Only the focused screen is mounted. Each mounted screen carries
a deep-link bridge (pkg/linking), so links are forwarded by exactly one listener.
The navigator persists every stack change through a ports.StateStore (memory,
Redis or bbolt) under a per-session lock.

# Usage

	app, err := navstack.New(navstack.WithLogger(logging.New(slog.LevelInfo)))
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go app.Run(ctx)
	<-app.Ready()

	_ = app.Open(ctx, "https://berty.tech/id#contact/...")
	stack := app.Stack()

Run blocks until ctx is done. Apply waits for the navigator and returns the
resulting stack; it must not be called from inside a screen's Mount.
*/
package navstack
