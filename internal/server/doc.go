// Package server hosts the Fiber HTTP service and request middleware chain:
// request IDs, panic recovery, CORS for the configured caller origins, the
// liveness probe, the single relay route, and the Accept-aware not-found
// fallback. The relay handler itself is injected through the ScriptHandler
// interface so tests can substitute fakes without touching transport code.
// Error rendering is production-aware: diagnostic detail only leaves the
// process when the production flag is off.
package server
