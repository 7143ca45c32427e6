package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

type bannerInfo struct {
	Room    string
	Display string
	Reader  string
}

// renderBanner draws the startup summary shown once the daemon is up.
func renderBanner(info bannerInfo) string {
	display := info.Display
	if display == "" {
		display = "auto (CEC)"
	}
	rdr := info.Reader
	if rdr == "" {
		rdr = "not detected"
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendRow(table.Row{"Room", info.Room})
	tw.AppendRow(table.Row{"Display", display})
	tw.AppendRow(table.Row{"Reader", rdr})
	return tw.Render()
}
