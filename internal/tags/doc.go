// Package tags rewrites the descriptive metadata of downloaded
// recordings.
//
// Existing frames are dropped rather than merged because the recording is
// replaced wholesale on every download; stale titles from a previous
// episode must not survive. Tags are written as ID3v2.3 with an ID3v1
// trailer appended for legacy players, so both modern and legacy readers
// see the same title, album, and artist.
package tags
