// Package mpv owns the fullscreen video renderer's process lifecycle: launch
// in a dedicated process group, graceful stop with a forced-kill fallback,
// and a name-based sweep for strays left behind by earlier runs.
package mpv
