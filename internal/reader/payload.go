package reader

// RecordKind distinguishes the decoded NDEF record shapes the parser understands.
type RecordKind int

const (
	RecordText RecordKind = iota
	RecordURI
)

func (k RecordKind) String() string {
	switch k {
	case RecordURI:
		return "uri"
	default:
		return "text"
	}
}

// Record is a single decoded NDEF record lifted off a scanned tag. Text holds
// the record's text payload for text records and the full URL for URI records.
type Record struct {
	Kind RecordKind
	Text string
}

// Payload carries everything read from one tag presentation. HasNDEF is false
// when the tag answered the anticollision but exposed no NDEF message at all.
type Payload struct {
	UID     string
	HasNDEF bool
	Records []Record
}
