/*
Package domain contains the core navigation models of navstack.

It defines the entities that flow between the lifecycle router, the deep-link
bridge and the navigation runtime. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - AppState: the coarse lifecycle phase owned by the messenger.
  - RouteName: the closed set of navigable screen identifiers.
  - Route / Stack: a named screen slot with params, and the navigable history.
  - Action: a request to the navigation runtime (navigate, reset, back).
  - Contact / Service: records handed to peripheral screens.
*/
package domain
