// Package max30100 is a register-level driver for the MAX30100 pulse oximetry
// and heart-rate sensor.
//
// Datasheet:
// https://datasheets.maximintegrated.com/en/ds/MAX30100.pdf
//
// The driver assumes a single owner of the bus: it does no locking and never
// retries. Every status wait is bounded by a Poll.
package max30100

import (
	"fmt"
	"time"

	"periph.io/x/periph/conn/i2c"
)

// Device defines a MAX30100 device.
type Device struct {
	dev *i2c.Dev
}

// New returns a MAX30100 on an already opened bus. If addr is 0, the default
// address (0x57) is used. It does not touch the device.
func New(bus i2c.Bus, addr uint16) *Device {
	if addr == 0 {
		addr = Addr
	}

	return &Device{
		dev: &i2c.Dev{
			Addr: addr,
			Bus:  bus,
		},
	}
}

func (d *Device) String() string {
	return fmt.Sprintf("MAX30100{%s}", d.dev)
}

// Poll bounds a status wait: the register is read at most Attempts times,
// sleeping Interval between reads.
type Poll struct {
	Interval time.Duration
	Attempts int
}

// DefaultPoll caps a wait at 50 reads, 1ms apart.
var DefaultPoll = Poll{Interval: time.Millisecond, Attempts: 50}

func (p Poll) orDefault() Poll {
	if p.Attempts <= 0 {
		p.Attempts = DefaultPoll.Attempts
	}
	if p.Interval < 0 {
		p.Interval = 0
	}
	return p
}

// Timeout is the longest time spent sleeping in a wait bounded by p.
func (p Poll) Timeout() time.Duration {
	p = p.orDefault()
	return time.Duration(p.Attempts-1) * p.Interval
}

// Read reads a single byte from a register.
func (d *Device) Read(reg byte) (byte, error) {
	b := make([]byte, 1)
	if err := d.dev.Tx([]byte{reg}, b); err != nil {
		return 0, &TransportError{Reg: reg, Dir: DirRead, Err: err}
	}

	return b[0], nil
}

// ReadBytes reads n bytes starting at a register in a single transaction. n
// must be between 1 and MaxTransfer.
func (d *Device) ReadBytes(reg byte, n int) ([]byte, error) {
	if n < 1 || n > MaxTransfer {
		return nil, &ConfigurationError{Field: "block length", Value: n, Max: MaxTransfer}
	}

	b := make([]byte, n)
	if err := d.dev.Tx([]byte{reg}, b); err != nil {
		return nil, &TransportError{Reg: reg, Dir: DirRead, Err: err}
	}

	return b, nil
}

// Write writes a byte to a register.
func (d *Device) Write(reg, data byte) error {
	n, err := d.dev.Write([]byte{reg, data})
	if err != nil {
		return &TransportError{Reg: reg, Dir: DirWrite, Err: err}
	}
	n-- // remove register write
	if n != 1 {
		return &TransportError{
			Reg: reg,
			Dir: DirWrite,
			Err: fmt.Errorf("wrong number of bytes written: want %d, got %d", 1, n),
		}
	}

	return nil
}

// update reads reg, passes it to fn and writes back the result. It returns
// the byte that was read. Nothing is written if fn fails.
func (d *Device) update(reg byte, fn func(byte) (byte, error)) (byte, error) {
	old, err := d.Read(reg)
	if err != nil {
		return 0, err
	}
	cfg, err := fn(old)
	if err != nil {
		return old, err
	}
	if err := d.Write(reg, cfg); err != nil {
		return old, err
	}

	return old, nil
}

// setField replaces a single field of reg, keeping every other bit as read
// from the device. It returns the previous value of the field.
func (d *Device) setField(reg byte, f field, v byte) (byte, error) {
	if v > f.Max() {
		return 0, &ConfigurationError{Field: f.Name, Value: int(v), Max: int(f.Max())}
	}
	old, err := d.update(reg, func(b byte) (byte, error) {
		return f.Set(b, v)
	})
	if err != nil {
		return 0, err
	}

	return f.Get(old), nil
}

func (d *Device) waitUntil(reg, flag byte, set bool, p Poll) error {
	p = p.orDefault()
	start := time.Now()
	for i := 0; i < p.Attempts; i++ {
		if i > 0 {
			time.Sleep(p.Interval)
		}
		state, err := d.Read(reg)
		if err != nil {
			return err
		}
		if (state&flag != 0) == set {
			return nil
		}
	}

	return &TimeoutError{
		Reg:      reg,
		Flag:     flag,
		Want:     set,
		Attempts: p.Attempts,
		Elapsed:  time.Since(start),
	}
}

// RevID returns the revision ID of the device.
func (d *Device) RevID() (byte, error) {
	return d.Read(RegRevID)
}

// PartID returns the part ID of the device. A MAX30100 reports 0x11.
func (d *Device) PartID() (byte, error) {
	return d.Read(RegPartID)
}

// Status reads and decodes the interrupt status register. Reading it clears
// the flags on the device, so the result is never cached.
func (d *Device) Status() (Interrupts, error) {
	b, err := d.Read(IntStatus)
	if err != nil {
		return Interrupts{}, err
	}
	return DecodeInterrupts(b), nil
}

// Reset resets the device. All configurations, thresholds, and data registers
// are reset to their power-on state. The reset bit is set with a
// read-modify-write and then polled until the device clears it.
func (d *Device) Reset(p Poll) error {
	if _, err := d.update(ModeCfg, func(b byte) (byte, error) {
		return fieldReset.setFlag(b, true), nil
	}); err != nil {
		return fmt.Errorf("max30100: could not reset: %w", err)
	}
	if err := d.waitUntil(ModeCfg, fieldReset.Mask(), false, p); err != nil {
		return fmt.Errorf("max30100: could not reset: %w", err)
	}

	return nil
}

// Shutdown sets the device into power-save mode.
func (d *Device) Shutdown() error {
	_, err := d.setField(ModeCfg, fieldShutdown, 1)

	return err
}

// Startup wakes the device from power-save mode.
func (d *Device) Startup() error {
	_, err := d.setField(ModeCfg, fieldShutdown, 0)

	return err
}

// Register is a named register value, as returned by Dump.
type Register struct {
	Name  string
	Addr  byte
	Value byte
}

func (r Register) String() string {
	return fmt.Sprintf("%-12s %#02x = %#02x (%08b)", r.Name, r.Addr, r.Value, r.Value)
}

var dumpRegisters = []struct {
	name string
	addr byte
}{
	{"INT_STATUS", IntStatus},
	{"INT_ENABLE", IntEnable},
	{"FIFO_WR_PTR", FIFOWrPtr},
	{"OVF_COUNTER", OvfCount},
	{"FIFO_RD_PTR", FIFORdPtr},
	{"MODE_CONFIG", ModeCfg},
	{"SPO2_CONFIG", SpO2Cfg},
	{"LED_CONFIG", LEDCfg},
	{"TEMP_INT", TempInt},
	{"TEMP_FRAC", TempFrac},
	{"REV_ID", RegRevID},
	{"PART_ID", RegPartID},
}

// Dump reads every configuration, status and identification register. Note
// that it clears the interrupt status flags.
func (d *Device) Dump() ([]Register, error) {
	regs := make([]Register, 0, len(dumpRegisters))
	for _, r := range dumpRegisters {
		v, err := d.Read(r.addr)
		if err != nil {
			return regs, err
		}
		regs = append(regs, Register{Name: r.name, Addr: r.addr, Value: v})
	}

	return regs, nil
}
