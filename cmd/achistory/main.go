// achistory records and inspects the installation history of access control
// configuration runs in a content repository.
//
// Every installation run is stored as a history entry below
// /var/statistics/achistory, newest first. Only the configured number of
// entries is kept.
//
// Usage:
//
//	# Store the outcome of a run
//	achistory persist --log run.log --success --execution-time 1.2s --config-file /apps/a/config.yaml
//
//	# List stored entries
//	achistory list
//
//	# Show one entry including verbose messages
//	achistory show history_1709634600000_via_api --verbose
//
//	# Reduce the history to three entries
//	achistory prune --keep 3
//
//	# Export entry metadata for audit tooling
//	achistory export --format csv --output history.csv
//
//	# Serve metrics and health endpoints and prune on a schedule
//	achistory serve --config /etc/achistory/config.yaml
package main

import "os"

func main() {
	os.Exit(Execute())
}
