// Package repository provides the hierarchical content repository that
// installation history is persisted into.
//
// # Model
//
// The repository is a tree of nodes addressed by absolute slash-separated
// paths. Every node has a name, a node type and a set of typed properties.
// Children of a node are ordered: new children are appended, and
// OrderBefore moves a child in front of one of its siblings.
//
//	/
//	└── var
//	    └── statistics
//	        └── achistory
//	            ├── history_1700000000123_via_api
//	            │   ├── actool.log
//	            │   │   └── jcr:content   (jcr:data, jcr:mimeType)
//	            │   └── actool-verbose.log
//	            └── history_1699999999000_via_jmx
//
// # Sessions
//
// All access goes through a Session. A session is owned by one caller for
// the duration of a call and performs no locking on behalf of that caller.
// Every mutation is applied immediately; there is no save/refresh cycle.
//
// # Backends
//
// Four backends implement Session:
//   - Memory: in-process tree, used by tests and dry runs
//   - Pebble: embedded ordered key-value store (github.com/cockroachdb/pebble)
//   - Redis: shared remote store (github.com/redis/go-redis/v9)
//   - SQLite: relational nodes/properties tables, using either the
//     mattn/go-sqlite3 ("sqlite3") or modernc.org/sqlite ("sqlite") driver
//
// Memory, Pebble and Redis share one tree implementation in which each node
// is a single JSON record holding its type, ordered child names and
// properties.
//
// # Files
//
// PutFile and ReadFile store binary content the way a content repository
// stores files: an nt:file node with a jcr:content child carrying the
// jcr:data, jcr:mimeType and jcr:lastModified properties.
package repository
