package feedback

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// Reporter writes the short status lines shown to whoever is standing at
// the box. Emoji prefixes are used only when the writer is a terminal so
// redirected output stays plain.
type Reporter struct {
	mu    sync.Mutex
	out   io.Writer
	emoji bool
}

// NewReporter builds a reporter for stdout.
func NewReporter() *Reporter {
	return NewReporterTo(os.Stdout)
}

// NewReporterTo builds a reporter writing to w, detecting emoji support
// from the writer itself.
func NewReporterTo(w io.Writer) *Reporter {
	return &Reporter{out: w, emoji: shouldEmoji(w)}
}

func shouldEmoji(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// line prints text with the emoji prefix when enabled. An empty prefix
// prints the text alone in both modes.
func (r *Reporter) line(prefix, text string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emoji && prefix != "" {
		fmt.Fprintln(r.out, prefix+" "+text)
		return
	}
	fmt.Fprintln(r.out, text)
}

func (r *Reporter) blank() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out)
}

// Card announces a freshly scanned named tag.
func (r *Reporter) Card(name string) {
	r.blank()
	r.line("💳", "Card: "+name)
}

// Playing reports sequential audio playback.
func (r *Reporter) Playing(title string) {
	r.line("▶️", "Playing: "+title)
}

// PlayingShuffled reports shuffled audio playback.
func (r *Reporter) PlayingShuffled(title string) {
	r.line("🔀", "Playing shuffled: "+title)
}

// PlayingVideo reports that a video stream was handed to the renderer.
func (r *Reporter) PlayingVideo(title string) {
	if title == "" {
		r.line("▶️", "Playing video")
		return
	}
	r.line("▶️", "Playing video: "+title)
}

// Failed reports a transport failure with whatever detail is available.
func (r *Reporter) Failed(detail string) {
	if detail == "" {
		detail = "unknown error"
	}
	r.line("❌", "Failed: "+detail)
}

// InvalidTag reports a scanned tag without NDEF data.
func (r *Reporter) InvalidTag() {
	r.line("❌", "Not a valid NDEF tag")
}

// UnsupportedTag reports a readable tag with no usable content.
func (r *Reporter) UnsupportedTag() {
	r.line("❌", "No supported content found on tag")
}

// Resumed reports that paused playback continued.
func (r *Reporter) Resumed() {
	r.line("▶️", "Playing")
}

// Stopped reports that playback stopped.
func (r *Reporter) Stopped() {
	r.line("⏹️", "Stopped")
}

// NextTrack reports a track skip forward.
func (r *Reporter) NextTrack() {
	r.line("⏭️", "Next track")
}

// PreviousTrack reports a track skip backward.
func (r *Reporter) PreviousTrack() {
	r.line("⏮️", "Previous track")
}

// Volume reports the level reached after an adjustment.
func (r *Reporter) Volume(level int, raised bool) {
	prefix := "🔉"
	if raised {
		prefix = "🔊"
	}
	r.line(prefix, fmt.Sprintf("%d%%", level))
}

// TVOn reports that the display was woken.
func (r *Reporter) TVOn() {
	r.line("📺", "TV on")
}

// TVStandby reports that the display was put to standby.
func (r *Reporter) TVStandby() {
	r.line("📺", "TV standby")
}

// Ready announces that startup finished and scanning is live.
func (r *Reporter) Ready() {
	r.blank()
	r.line("✨", "Magic Box Ready")
}

// ScanHint prints the idle prompt shown after startup.
func (r *Reporter) ScanHint() {
	r.blank()
	r.line("", "Scan tag to begin... (Ctrl+C or Ctrl+Z to quit)")
}

// Goodbye announces shutdown.
func (r *Reporter) Goodbye() {
	r.blank()
	r.line("👋", "Shutting down Magic Box...")
}

// SetupFailed reports that the reader could not be opened at startup.
func (r *Reporter) SetupFailed() {
	r.line("❌", "NFC setup failed")
}
