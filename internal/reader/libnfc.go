package reader

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clausecker/nfc/v2"

	"github.com/simoneroux/magicbox/internal/logging"
	"github.com/simoneroux/magicbox/internal/services"
)

const (
	// pollInterval paces the passive target scan while the field is empty.
	pollInterval = 250 * time.Millisecond
	// transceiveTimeoutMS bounds a single Type 2 READ exchange.
	transceiveTimeoutMS = 500

	t2ReadCommand = 0x30
	t2BlockBytes  = 16

	tlvNull       = 0x00
	tlvNDEF       = 0x03
	tlvTerminator = 0xFE
)

var typeAModulation = nfc.Modulation{Type: nfc.ISO14443a, BaudRate: nfc.Nbr106}

var errNotNDEFFormatted = errors.New("capability container magic missing")

// Device reads NFC Forum Type 2 tags through libnfc. It polls for passive
// ISO14443a targets, dumps the tag's data area with READ commands, and
// decodes the NDEF message found there.
type Device struct {
	dev        nfc.Device
	connstring string
	logger     *slog.Logger

	awaitRemoval bool
}

// Open tries each candidate connstring in order and returns a device for
// the first one that initializes as an initiator. The probe order is part
// of the deployment contract: on-board UART first, then the Pi's primary
// UART alias.
func Open(candidates []string, logger *slog.Logger) (*Device, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	var lastErr error
	for _, connstring := range candidates {
		dev, err := nfc.Open(connstring)
		if err != nil {
			logger.Debug("reader probe failed",
				logging.String("device", connstring),
				logging.Error(err))
			lastErr = err
			continue
		}
		if err := dev.InitiatorInit(); err != nil {
			logger.Debug("reader initiator init failed",
				logging.String("device", connstring),
				logging.Error(err))
			dev.Close()
			lastErr = err
			continue
		}
		logger.Info("NFC reader opened", logging.String("device", connstring))
		return &Device{dev: dev, connstring: connstring, logger: logger}, nil
	}
	return nil, services.Wrap(services.ErrNotFound, "reader", "open", "no NFC device available", lastErr)
}

// Connstring reports which candidate the device was opened on.
func (d *Device) Connstring() string {
	return d.connstring
}

// Close releases the libnfc device.
func (d *Device) Close() error {
	return d.dev.Close()
}

// WaitForTag polls until a tag enters the field and returns its payload.
// A tag left on the reader triggers exactly one payload: the next call
// first waits for the field to clear before polling again.
func (d *Device) WaitForTag(ctx context.Context) (*Payload, error) {
	if d.awaitRemoval {
		if err := d.waitForRemoval(ctx); err != nil {
			return nil, err
		}
		d.awaitRemoval = false
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		targets, err := d.dev.InitiatorListPassiveTargets(typeAModulation)
		if err != nil {
			return nil, services.Wrap(services.ErrTransient, "reader", "poll", "", err)
		}
		if len(targets) == 0 {
			if err := sleepContext(ctx, pollInterval); err != nil {
				return nil, err
			}
			continue
		}
		target, ok := targets[0].(*nfc.ISO14443aTarget)
		if !ok {
			d.logger.Debug("ignoring non-ISO14443a target",
				logging.String("target", targets[0].String()))
			if err := sleepContext(ctx, pollInterval); err != nil {
				return nil, err
			}
			continue
		}
		uid := hex.EncodeToString(target.UID[:target.UIDLen])
		payload := d.readTag(uid)
		d.awaitRemoval = true
		return payload, nil
	}
}

func (d *Device) waitForRemoval(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		targets, err := d.dev.InitiatorListPassiveTargets(typeAModulation)
		if err != nil {
			// Field state is unknowable here; let the next poll decide.
			return nil
		}
		if len(targets) == 0 {
			return nil
		}
		if err := sleepContext(ctx, pollInterval); err != nil {
			return err
		}
	}
}

// readTag builds the payload for a detected tag. Read or decode failures
// leave HasNDEF false so the dispatcher treats the tag as invalid rather
// than failing the listener loop.
func (d *Device) readTag(uid string) *Payload {
	payload := &Payload{UID: uid}
	data, err := d.readDataArea()
	if err != nil {
		d.logger.Debug("tag data read failed",
			logging.String("tag_uid", uid),
			logging.Error(err))
		return payload
	}
	payload.HasNDEF = true
	raw, ok := extractNDEFMessage(data)
	if !ok {
		return payload
	}
	records, err := decodeRecords(raw)
	if err != nil {
		d.logger.Debug("NDEF decode failed",
			logging.String("tag_uid", uid),
			logging.Error(err))
		return payload
	}
	payload.Records = records
	return payload
}

// readDataArea dumps the Type 2 user data pages. Page 3 holds the
// capability container: byte 0 is the 0xE1 magic, byte 2 the data area
// size in 8-byte units.
func (d *Device) readDataArea() ([]byte, error) {
	cc, err := d.readBlock(3)
	if err != nil {
		return nil, err
	}
	if cc[0] != 0xE1 {
		return nil, errNotNDEFFormatted
	}
	size := int(cc[2]) * 8
	if size <= 0 {
		return nil, errNotNDEFFormatted
	}
	data := make([]byte, 0, size)
	for page := 4; len(data) < size; page += 4 {
		block, err := d.readBlock(page)
		if err != nil {
			return nil, err
		}
		data = append(data, block...)
	}
	return data[:size], nil
}

// readBlock issues a Type 2 READ, which returns four pages (16 bytes)
// starting at the given page.
func (d *Device) readBlock(page int) ([]byte, error) {
	tx := []byte{t2ReadCommand, byte(page)}
	rx := make([]byte, t2BlockBytes)
	n, err := d.dev.InitiatorTransceiveBytes(tx, rx, transceiveTimeoutMS)
	if err != nil {
		return nil, fmt.Errorf("read page %d: %w", page, err)
	}
	if n < t2BlockBytes {
		return nil, fmt.Errorf("read page %d: short response (%d bytes)", page, n)
	}
	return rx[:t2BlockBytes], nil
}

// extractNDEFMessage walks the TLV blocks in a Type 2 data area and
// returns the value of the NDEF message TLV.
func extractNDEFMessage(data []byte) ([]byte, bool) {
	i := 0
	for i < len(data) {
		switch data[i] {
		case tlvNull:
			i++
		case tlvTerminator:
			return nil, false
		case tlvNDEF:
			if i+1 >= len(data) {
				return nil, false
			}
			length := int(data[i+1])
			start := i + 2
			if length == 0xFF {
				// Three-byte length form.
				if i+3 >= len(data) {
					return nil, false
				}
				length = int(data[i+2])<<8 | int(data[i+3])
				start = i + 4
			}
			if length == 0 || start+length > len(data) {
				return nil, false
			}
			return data[start : start+length], true
		default:
			if i+1 >= len(data) {
				return nil, false
			}
			i += 2 + int(data[i+1])
		}
	}
	return nil, false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
