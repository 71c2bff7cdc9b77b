// Package schedule fetches and models the station's upcoming-broadcast
// feed.
//
// The client issues a single GET per pipeline run and reports transport
// and decode problems through the ErrUnreachable and ErrMalformed
// sentinels so the driver can route them to the right notification
// channel. An empty feed is a normal state, not an error; the next
// scheduled run is the retry mechanism.
package schedule
