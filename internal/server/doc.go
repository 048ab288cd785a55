// Package server provides HTTP routing, middleware, and a read-only browser over stored scrape runs.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers so that the first one added executes first. [RequestLogger] and [Recoverer]
// are the stock middleware used by the serve command.
//
// The [BasicRouter] implementation registers method-qualified patterns on [http.ServeMux],
// which takes care of wildcards like {id} and of 405 responses.
//
// # Run Browser
//
// [RunsHandler] reads runs persisted by the scrape command through a [RunStore]:
//
//	GET /healthz         → liveness probe
//	GET /api/runs        → JSON list, newest first (?limit=N)
//	GET /api/runs/{id}   → JSON run with outcomes and records
//	GET /                → HTML run list
//	GET /runs/{id}       → HTML run detail
//
// HTML pages are rendered from embedded html/template files.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
