package reader

import (
	"testing"

	ndef "github.com/hsanjuan/go-ndef"
)

func TestDecodeRecordsTextAndURI(t *testing.T) {
	msg := ndef.NewMessageFromRecords(
		ndef.NewTextRecord("album:Abbey Road", "en"),
		ndef.NewURIRecord("https://open.spotify.com/album/0ETFjACtuP2ADo6LFhL6HN"),
	)
	raw, err := msg.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	records, err := decodeRecords(raw)
	if err != nil {
		t.Fatalf("decodeRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Kind != RecordText || records[0].Text != "album:Abbey Road" {
		t.Errorf("first record = %v %q", records[0].Kind, records[0].Text)
	}
	if records[1].Kind != RecordURI || records[1].Text != "https://open.spotify.com/album/0ETFjACtuP2ADo6LFhL6HN" {
		t.Errorf("second record = %v %q", records[1].Kind, records[1].Text)
	}
}

func TestDecodeRecordsSingleText(t *testing.T) {
	raw, err := ndef.NewTextMessage("play", "en").Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	records, err := decodeRecords(raw)
	if err != nil {
		t.Fatalf("decodeRecords: %v", err)
	}
	if len(records) != 1 || records[0].Kind != RecordText || records[0].Text != "play" {
		t.Fatalf("records = %+v", records)
	}
}

func TestDecodeRecordsRejectsGarbage(t *testing.T) {
	if _, err := decodeRecords([]byte{0xFF}); err == nil {
		t.Fatal("expected error for undecodable bytes")
	}
}
