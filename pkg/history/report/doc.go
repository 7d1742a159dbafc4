// Package report renders stored history entries for people.
//
// ListEntries summarizes the container, one numbered line per entry. A
// Formatter renders a single entry as plain text or HTML:
//
//	Installation triggered: Tue Mar 05 10:30:00 UTC 2024
//	Applied 3 authorizables
//	Execution time: 1234 ms
//	Success: true
//
// Entries written before log files were introduced keep their messages in a
// property. That property is shown in place of the log file whenever it is
// present.
//
// Rendering does not return errors. A failure is appended to the output as an
// "ERROR while retrieving log" line so the caller can show what was read.
package report
