// Package sidecar persists the per-show provenance record that sits next
// to each downloaded recording.
//
// The record stores the remote URL last downloaded, the download
// timestamp, and the declared byte size. It is the sole authority for
// deciding whether the local recording is still current: comparison is by
// exact URL string equality, relying on the documented upstream guarantee
// that published objects are immutable. The record is written only after a
// download has been fully verified, via a temp-file rename so a crash
// never leaves a sidecar describing a recording that was not completely
// written.
package sidecar
