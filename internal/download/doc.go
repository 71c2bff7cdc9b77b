// Package download retrieves remote recordings with a bounded retry
// budget and byte-count integrity verification.
//
// Each attempt streams the remote resource to a .part file next to the
// destination and compares the bytes written against the declared content
// length; a mismatch or an absent declared length fails the attempt the
// same way a transport error does. Only a verified attempt is renamed
// over the destination, so a terminal failure leaves any previously
// downloaded recording untouched. Verification is by size only — content
// change detection belongs to the sidecar's URL-equality contract, not to
// hashing.
package download
