package tag

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/simoneroux/magicbox/internal/reader"
)

// Streaming services whose share links the speaker transport accepts directly.
// The match is a plain prefix test, trailing slash included, mirroring the
// provider URL shapes written by the tag provisioning tools.
var audioURLPrefixes = []string{
	"https://open.spotify.com/",
	"http://open.spotify.com/",
	"https://music.apple.com/",
	"http://music.apple.com/",
	"https://tidal.com/",
	"http://tidal.com/",
	"https://www.deezer.com/",
	"http://www.deezer.com/",
}

// Parse interprets the decoded records of one tag scan and produces the
// structured intent the dispatcher acts on. Unrecognized records are inert;
// a scan yielding neither a playable URL nor a control token is classified
// as unsupported.
func Parse(records []reader.Record) Intent {
	var intent Intent

	for _, record := range records {
		switch record.Kind {
		case reader.RecordText:
			applyTextRecord(&intent, record.Text)
		case reader.RecordURI:
			// First URI wins; tags are expected to carry at most one.
			if intent.URL == "" && record.Text != "" {
				intent.URL = record.Text
			}
		}
	}

	intent.Class = resolveClass(&intent)
	return intent
}

func applyTextRecord(intent *Intent, text string) {
	// Phone NDEF writers emit decomposed forms for accented card names.
	text = strings.TrimSpace(norm.NFC.String(text))
	if text == "" {
		return
	}

	if before, after, found := strings.Cut(text, ":"); found {
		identifier := strings.ToLower(strings.TrimSpace(before))
		content := strings.TrimSpace(after)
		switch identifier {
		case "name":
			intent.Name = content
		case "mode":
			if strings.ToLower(content) == "shuffle" {
				intent.Shuffle = true
			}
		case "type":
			intent.ContentType = strings.ToLower(content)
		}
		return
	}

	if command, ok := parseCommand(strings.ToLower(text)); ok {
		intent.Command = command
	}
}

func parseCommand(token string) (Command, bool) {
	switch token {
	case "play":
		return CommandPlay, true
	case "stop":
		return CommandStop, true
	case "next":
		return CommandNext, true
	case "prev":
		return CommandPrev, true
	case "vol_up":
		return CommandVolumeUp, true
	case "vol_down":
		return CommandVolumeDown, true
	case "tv_on":
		return CommandTVOn, true
	case "tv_off":
		return CommandTVOff, true
	default:
		return CommandNone, false
	}
}

func resolveClass(intent *Intent) Class {
	if intent.URL != "" {
		if intent.ContentType == "video" {
			return ClassVideoStream
		}
		if isAudioShareLink(intent.URL) {
			return ClassAudioStream
		}
		return ClassUnsupported
	}
	if intent.Command != CommandNone {
		return ClassControl
	}
	return ClassUnsupported
}

func isAudioShareLink(url string) bool {
	for _, prefix := range audioURLPrefixes {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}
