// Package history provides the data model for installation history entries
// stored in the content repository.
//
// An installation run of the access control tool produces an
// InstallationLog. The recorder persists it as one history entry under a
// fixed container, the pruner keeps only the newest entries, and the report
// package renders stored entries back to text.
//
// # Layout
//
//	/var/statistics                       nt:unstructured
//	└── achistory                         sling:OrderedFolder
//	    └── history_<millis>_via_<origin> nt:unstructured
//	        ├── installationDate  "Tue Mar 05 10:30:00 UTC 2024"
//	        ├── timestamp         1709634600000
//	        ├── success           true
//	        ├── executionTime     1234
//	        ├── installedFrom     "my-package/apps/a/" (only with config files)
//	        ├── sling:resourceType
//	        ├── actool.log          nt:file, text/plain
//	        └── actool-verbose.log  nt:file, text/plain
//
// Entries are ordered newest first. Entry and property names are part of the
// stored format and must stay stable for entries written by earlier
// versions. Entries written by old versions may carry the whole log in a
// single "messages" property instead of the two files; that property is read
// but never written.
//
// # Origins
//
// The suffix of an entry name records what triggered the run:
//
//	_via_hook_in_<package>  installed from a content package
//	_via_scheduler          scheduled run
//	_via_jmx                management interface
//	_via_webconsole         web console
//	_via_api                direct API call (default)
//
// # Subpackages
//
//   - recorder: persists an InstallationLog as a new entry
//   - retention: deletes entries beyond the retention count
//   - report: renders entries and lists them
//   - export: writes entries as JSON or CSV
package history
