// Package services defines shared utilities consumed by the transport clients
// and the dispatch pipeline.
//
// Key responsibilities:
//   - Context helpers that stamp scan correlation IDs and tag UIDs for logging
//     and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     (external tool vs validation vs transient) without losing detail.
//
// Use these helpers when wiring new transport logic so operational behaviour
// (error handling, observability, retries) stays uniform across subsystems.
package services
