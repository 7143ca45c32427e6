// Package daemon coordinates the long-running Magic Box process and system
// integration points.
//
// It wires the NFC reader, the dispatcher, and the udev reader watcher into
// a single lifecycle with flock-based locking to prevent multiple instances.
// The daemon owns the scan loop that blocks on the reader, stamps every scan
// with a correlation ID, and hands payloads to the dispatcher one at a time.
// Shutdown runs the goodbye sequence: stop playback, send the display to
// standby, close the reader, and play the farewell cue.
//
// Keep orchestration logic here: tag parsing and transport control live in
// their own packages while the daemon focuses on startup, shutdown, and high
// level coordination.
package daemon
