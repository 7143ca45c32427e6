package main

import (
	"github.com/spf13/cobra"
)

const rootLong = `magicboxd turns NFC tag scans into playback actions. ROOM names the
Sonos speaker the box controls, for example "Living Room". The daemon
blocks on the reader, dispatches one tag at a time, and shuts down
cleanly on Ctrl+C or Ctrl+Z.`

func newRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "magicboxd ROOM",
		Short:         "NFC jukebox daemon for a Sonos speaker, a CEC display, and mpv",
		Long:          rootLong,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context(), args[0])
		},
	}
}
