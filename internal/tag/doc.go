// Package tag interprets the NDEF records read from a scanned tag into the
// structured intent the dispatcher acts on: an audio share link, a video URL,
// a bare control command, or unsupported content.
package tag
