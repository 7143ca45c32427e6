package reader

import "context"

// Reader is the boundary between the listener loop and the NFC hardware.
// Implementations block in WaitForTag until a tag enters the field and
// return one payload per presentation.
type Reader interface {
	// WaitForTag blocks until a tag is read or ctx is canceled. A payload
	// is returned for every detected tag, including ones without NDEF
	// data; hardware faults surface as errors for the caller to retry.
	WaitForTag(ctx context.Context) (*Payload, error)
	// Close releases the underlying device. Safe to call once WaitForTag
	// has returned.
	Close() error
}
