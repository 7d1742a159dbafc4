// Package health provides the health endpoints of the serve command.
//
// # Endpoints
//
//   - /health: liveness, the process is running
//   - /ready: readiness, every registered component check passes
//   - /version: build information
//
// # Usage
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("repository", func(ctx context.Context) error {
//	    _, err := session.HasNode(ctx, "/")
//	    return err
//	})
//	health.Register(mux, checker, version, commit, buildTime)
package health
