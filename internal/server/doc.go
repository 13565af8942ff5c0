// Package server exposes the catalog over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method-qualified patterns.
//
// # Catalog API
//
// [CatalogHandler] serves the catalog's query surface: lifecycle status, track
// listings, search, genres, the browse tree, and favorites. A sync endpoint
// triggers a fresh load from the backing library without blocking the request.
//
// Responses are JSON. Bulk listing endpoints mirror the catalog's gating rule
// and return empty lists until a load has completed, so clients never see a
// partially synced catalog presented as complete.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
