// Package report holds the read-only projections behind the dashboard and
// the sales report. Every function here is pure: it takes snapshots of the
// document collections plus an explicit "today" and never mutates its input.
package report
