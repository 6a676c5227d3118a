/*
Package observability provides tools for monitoring model edits.

It includes an audit hook that writes every committed change to a structured
logger, and an aggregator that fans change events out to several hooks while
keeping per-type counters.
*/
package observability
