// Package sonos drives the networked speaker through the soco-cli command
// line tool. Every invocation follows the `sonos ROOM action [args]` shape
// with the room fixed at construction; failures carry the tool's trailing
// output so the dispatcher can surface a meaningful error to the user.
package sonos
