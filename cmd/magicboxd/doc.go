// Package main hosts the magicboxd entrypoint.
//
// The single Cobra command wires configuration, logging, the NFC reader,
// the three transports, and the daemon lifecycle together, then blocks on
// the signal context until shutdown. Keep this package lean: behaviour
// belongs in the internal packages, the command only assembles them.
package main
