// Package dispatch is the heart of the box: it turns one parsed tag
// intent at a time into transport calls against the speaker, the display,
// and the video renderer.
//
// Dispatch is strictly serialized. The reader hardware already delivers
// one scan at a time, but the shutdown path can run concurrently with an
// in-flight intent, so the dispatcher guards itself and the shared
// playback state with explicit locks rather than relying on the loop
// shape. Audio and video playback are mutually exclusive: starting either
// one first tears the other down.
//
// Failures inside a branch never escape. Every scan ends in an audible
// cue and a console line, and the listener loop keeps running no matter
// what the transports did.
package dispatch
