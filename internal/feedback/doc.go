// Package feedback drives the box's two user-facing channels: short audio
// cues played through the local sound device and status lines written to
// the console.
//
// Cues are synthesized sine tones; every Kind has a fixed frequency and
// duration so outcomes stay distinguishable by ear on a box with no
// screen. Playback is best-effort and never blocks or fails a dispatch.
// The console reporter mirrors the same outcomes in text, with emoji
// prefixes only when stdout is a terminal.
package feedback
