// Package cec controls the television over HDMI-CEC using cec-client in
// single-command mode. Each operation spawns one short-lived process with the
// CEC command on stdin; the television is always logical address 0.
package cec
