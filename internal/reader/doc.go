// Package reader owns the NFC hardware boundary.
//
// The Reader interface is what the listener loop consumes; Device is the
// libnfc-backed implementation for a PN532 on a serial UART. A scan walks
// the Type 2 tag's data area, pulls the NDEF message out of its TLV
// wrapping, and reduces it to the two record kinds the rest of the system
// cares about: well-known Text and URI records. Tags that fail anywhere
// along that path still produce a payload so the dispatcher can give
// audible feedback instead of silently ignoring the scan.
package reader
