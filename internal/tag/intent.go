package tag

// Class identifies which subsystem should handle a parsed intent.
type Class int

const (
	ClassUnsupported Class = iota
	ClassAudioStream
	ClassVideoStream
	ClassControl
)

func (c Class) String() string {
	switch c {
	case ClassAudioStream:
		return "audio-stream"
	case ClassVideoStream:
		return "video-stream"
	case ClassControl:
		return "control"
	default:
		return "unsupported"
	}
}

// Command enumerates the recognized bare control tokens.
type Command int

const (
	CommandNone Command = iota
	CommandPlay
	CommandStop
	CommandNext
	CommandPrev
	CommandVolumeUp
	CommandVolumeDown
	CommandTVOn
	CommandTVOff
)

func (c Command) String() string {
	switch c {
	case CommandPlay:
		return "play"
	case CommandStop:
		return "stop"
	case CommandNext:
		return "next"
	case CommandPrev:
		return "prev"
	case CommandVolumeUp:
		return "vol_up"
	case CommandVolumeDown:
		return "vol_down"
	case CommandTVOn:
		return "tv_on"
	case CommandTVOff:
		return "tv_off"
	default:
		return "none"
	}
}

const genericAudioTitle = "Music from tag"

// Intent is the structured interpretation of one tag scan.
type Intent struct {
	Class       Class
	Name        string
	ContentType string
	Shuffle     bool
	URL         string
	Command     Command
}

// Title returns the display title for audio playback, falling back to a
// generic label when the tag carried no name record.
func (i Intent) Title() string {
	if i.Name != "" {
		return i.Name
	}
	return genericAudioTitle
}
