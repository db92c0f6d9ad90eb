// Package window implements the windowing constructs the trigger subsystem
// evaluates against. In the world of data processing on an unbounded stream,
// Windowing is a concept of grouping data using temporal boundaries. We use
// event-time to discover temporal boundaries on an unbounded, infinite stream
// and Watermark to ensure the datasets within the boundaries are complete.
//
// Windows may be either aligned (e.g., Fixed, Sliding), i.e. applied across
// all the data for the window of time in question, or unaligned (e.g.,
// Session), i.e. applied across only specific subsets of the data (e.g. per
// key) for the given window of time. Unaligned windows can merge: a new
// event can bridge the gap between two session windows, collapsing them into
// one. Merging is what forces the trigger subsystem to reconcile per-window
// state rather than simply carry it forward.
package window
