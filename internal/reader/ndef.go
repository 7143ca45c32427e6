package reader

import (
	"fmt"

	ndef "github.com/hsanjuan/go-ndef"
)

// decodeRecords parses a raw NDEF message and keeps the record kinds the
// box understands: NFC Forum well-known Text ("T") and URI ("U") records.
// Everything else on the tag is ignored, not rejected.
func decodeRecords(raw []byte) ([]Record, error) {
	msg := &ndef.Message{}
	if _, err := msg.Unmarshal(raw); err != nil {
		return nil, fmt.Errorf("unmarshal NDEF message: %w", err)
	}
	var records []Record
	for _, rec := range msg.Records {
		if rec.TNF() != ndef.NFCForumWellKnownType {
			continue
		}
		payload, err := rec.Payload()
		if err != nil {
			continue
		}
		switch rec.Type() {
		case "T":
			records = append(records, Record{Kind: RecordText, Text: payload.String()})
		case "U":
			records = append(records, Record{Kind: RecordURI, Text: payload.String()})
		}
	}
	return records, nil
}
