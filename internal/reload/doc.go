// Package reload keeps the published site in step with the files on disk.
//
// A Coordinator consumes change events from a Source, filters noise,
// debounces bursts into a single rebuild and decides whether the burst
// touched only static assets or needs a full rebuild. The result is built
// off to the side and swapped into the site.Slot in one step, so readers
// see either the previous snapshot or the new one.
//
// State machine:
//
//	Idle --event--> Accumulating --quiet period--> Rebuilding --> Idle
//	                    ^   |
//	                    +---+ every event resets the timer
package reload
