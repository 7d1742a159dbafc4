// Package server runs the HTTP listener of the serve command.
//
// The server only owns the lifecycle: it wraps a caller-supplied handler in
// the middleware chain, listens until the context is cancelled and then
// shuts down gracefully. Routes are registered by the caller:
//
//	mux := http.NewServeMux()
//	mux.Handle("/metrics", collector.Handler())
//	health.Register(mux, checker, version, commit, buildDate)
//
//	srv := server.New(server.Config{ListenAddress: "127.0.0.1:9464"}, mux)
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// # Middleware
//
// Requests pass, outermost first, through panic recovery, request IDs,
// access logging and trace context extraction. The request ID is taken from the
// X-Request-ID header or generated, echoed in the response, and stored in the
// context as the run ID so that every log line of the request carries it.
package server
