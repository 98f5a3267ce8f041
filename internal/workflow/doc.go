// Package workflow implements the location resolution and analysis
// submission workflow for a single visit.
//
// A Visit owns one Store. The Resolver is the only writer of the store's
// coordinates; the MapSynchronizer and the Submitter only read it. Each
// long-running operation is gated by its own Operation so that a second
// request while one is in flight is refused, and a request that settles
// after the visit is closed never commits.
package workflow
