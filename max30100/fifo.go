package max30100

import (
	"encoding/binary"
	"fmt"
)

// Sample is a single FIFO slot: the raw IR and red ADC values.
type Sample struct {
	IR  uint16
	Red uint16
}

// decodeSamples converts raw FIFO bytes into samples. Each slot holds the IR
// value followed by the red value, both MSB first. Trailing bytes that do not
// form a full slot are ignored.
func decodeSamples(raw []byte) []Sample {
	s := make([]Sample, 0, len(raw)/SampleSize)
	for i := 0; i+SampleSize <= len(raw); i += SampleSize {
		s = append(s, Sample{
			IR:  binary.BigEndian.Uint16(raw[i:]),
			Red: binary.BigEndian.Uint16(raw[i+2:]),
		})
	}

	return s
}

// WaitAlmostFull polls the interrupt status register until the FIFO almost
// full flag is set.
func (d *Device) WaitAlmostFull(p Poll) error {
	if err := d.waitUntil(IntStatus, AlmostFull, true, p); err != nil {
		return fmt.Errorf("max30100: error waiting for almost full interrupt: %w", err)
	}

	return nil
}

// ReadFIFO reads the whole FIFO in block reads of BlockSize bytes and returns
// its FIFODepth samples, oldest first. The device advances its read pointer
// on its own.
func (d *Device) ReadFIFO() ([]Sample, error) {
	raw := make([]byte, 0, FIFODepth*SampleSize)
	for len(raw) < cap(raw) {
		b, err := d.ReadBytes(FIFOData, BlockSize)
		if err != nil {
			return nil, fmt.Errorf("max30100: could not read FIFO: %w", err)
		}
		raw = append(raw, b...)
	}

	return decodeSamples(raw), nil
}

// Drain waits for the FIFO to be almost full and reads it. The returned batch
// holds exactly FIFODepth samples, oldest first.
func (d *Device) Drain(p Poll) ([]Sample, error) {
	if err := d.WaitAlmostFull(p); err != nil {
		return nil, err
	}

	return d.ReadFIFO()
}

// Overflow returns the number of samples lost since the FIFO was last
// cleared. The device saturates the counter at 0xF.
func (d *Device) Overflow() (byte, error) {
	return d.Read(OvfCount)
}

// Available returns the number of unread samples according to the FIFO
// pointers. Equal pointers are reported as empty.
func (d *Device) Available() (int, error) {
	wr, err := d.Read(FIFOWrPtr)
	if err != nil {
		return 0, err
	}
	rd, err := d.Read(FIFORdPtr)
	if err != nil {
		return 0, err
	}

	return (int(wr) + FIFODepth - int(rd)) % FIFODepth, nil
}

// ClearFIFO resets the write pointer, the overflow counter and the read
// pointer so the next read starts from an empty buffer.
func (d *Device) ClearFIFO() error {
	for _, reg := range []byte{FIFOWrPtr, OvfCount, FIFORdPtr} {
		if err := d.Write(reg, 0); err != nil {
			return fmt.Errorf("max30100: could not clear FIFO: %w", err)
		}
	}

	return nil
}
