// Package recorder persists installation logs as history entries.
//
// # Persisting
//
// One call to Recorder.Persist:
//
//  1. creates the history container if it is missing
//  2. names the entry after the current time and the origin of the run
//  3. creates the entry node, or reuses it when the name is taken
//  4. writes the metadata properties
//  5. writes the verbose and the normal message log as text/plain files
//  6. prunes the container down to the retention count
//  7. moves the new entry in front of the current first child
//
// Usage:
//
//	rec := recorder.New(recorder.Config{Metrics: collector, Tracer: tracer})
//	handle, err := rec.Persist(ctx, session, log, cfg.History.NrOfHistoriesToSave)
//	if err != nil {
//	    return err
//	}
//
// The caller owns the session for the duration of the call. Steps are not
// transactional: a failure leaves the steps before it applied.
package recorder
