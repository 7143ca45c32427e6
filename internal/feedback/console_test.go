package feedback

import (
	"bytes"
	"strings"
	"testing"
)

func TestReporterPlainForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporterTo(&buf)
	if r.emoji {
		t.Fatal("expected plain mode for a non-file writer")
	}
	r.Playing("Abbey Road")
	r.Volume(35, true)
	r.InvalidTag()
	out := buf.String()
	for _, want := range []string{"Playing: Abbey Road\n", "35%\n", "Not a valid NDEF tag\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "▶") {
		t.Errorf("plain mode should carry no emoji:\n%s", out)
	}
}

func TestReporterEmojiPrefixes(t *testing.T) {
	var buf bytes.Buffer
	r := &Reporter{out: &buf, emoji: true}
	r.PlayingShuffled("Road Trip Mix")
	r.Card("Kitchen Jams")
	r.Volume(30, false)
	r.TVStandby()
	out := buf.String()
	wants := []string{
		"🔀 Playing shuffled: Road Trip Mix\n",
		"💳 Card: Kitchen Jams\n",
		"🔉 30%\n",
		"📺 TV standby\n",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "\n\n💳") {
		t.Errorf("expected blank line before card announcement:\n%s", out)
	}
}

func TestReporterFallbackTitles(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporterTo(&buf)
	r.PlayingVideo("")
	r.Failed("")
	out := buf.String()
	if !strings.Contains(out, "Playing video\n") {
		t.Errorf("expected bare video line:\n%s", out)
	}
	if !strings.Contains(out, "Failed: unknown error\n") {
		t.Errorf("expected failure fallback detail:\n%s", out)
	}
}

func TestReporterNilReceiver(t *testing.T) {
	var r *Reporter
	r.Playing("anything")
	r.Goodbye()
}
