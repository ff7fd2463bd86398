// Package site owns the live snapshot of a built site and the pipeline that
// produces it.
//
// Slot is the single shared holder read by the HTTP layer and written by
// the reload coordinator. Builder runs content loading, the page graph and
// rendering off to the side; callers publish its result into the Slot in
// one step.
package site
