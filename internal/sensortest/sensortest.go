// Package sensortest implements a fake MAX30100 register file behind an
// i2c.Bus, for tests that need more than a fixed transaction script.
package sensortest

import (
	"errors"
	"fmt"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/physic"
)

// ErrNACK is returned for transactions addressed to another device.
var ErrNACK = errors.New("sensortest: no acknowledge")

const (
	addr      = 0x57
	intStatus = 0x00
	fifoData  = 0x05
	modeCfg   = 0x06
	resetBit  = 0x40
)

// Write is a recorded register write.
type Write struct {
	Reg   byte
	Value byte
}

// Bus is a fake MAX30100 at address 0x57.
//
// Register reads return Regs, except the interrupt status register which
// returns Status and the FIFO data register which serves FIFO cyclically.
// The reset bit of the mode register clears itself on write unless
// StuckReset is set.
type Bus struct {
	Regs       [256]byte
	Status     byte
	FIFO       []byte
	StuckReset bool
	// Fail makes every transaction on a register fail with the given error.
	Fail map[byte]error

	// Transactions counts every transaction addressed to the sensor, per
	// register, including failed ones.
	Transactions map[byte]int
	Reads        map[byte]int
	Writes       []Write

	fifoPos int
}

var _ i2c.Bus = (*Bus)(nil)

// New returns a powered-up MAX30100 with part ID 0x11 and revision ID rev.
func New(rev byte) *Bus {
	b := &Bus{
		Fail:         map[byte]error{},
		Transactions: map[byte]int{},
		Reads:        map[byte]int{},
	}
	b.Regs[0xFF] = 0x11
	b.Regs[0xFE] = rev

	return b
}

func (b *Bus) String() string { return "sensortest" }

// SetSpeed implements i2c.Bus.
func (b *Bus) SetSpeed(f physic.Frequency) error { return nil }

// Tx implements i2c.Bus.
func (b *Bus) Tx(a uint16, w, r []byte) error {
	if a != addr {
		return ErrNACK
	}
	if len(w) == 0 {
		return fmt.Errorf("sensortest: no register in transaction")
	}
	reg := w[0]
	if b.Transactions == nil {
		b.Transactions = map[byte]int{}
	}
	b.Transactions[reg]++
	if err := b.Fail[reg]; err != nil {
		return err
	}

	switch {
	case len(w) == 1 && len(r) > 0:
		if b.Reads == nil {
			b.Reads = map[byte]int{}
		}
		b.Reads[reg]++
		b.read(reg, r)
	case len(w) == 2 && len(r) == 0:
		b.write(reg, w[1])
	default:
		return fmt.Errorf("sensortest: unsupported transaction w=%#v len(r)=%d", w, len(r))
	}

	return nil
}

func (b *Bus) read(reg byte, r []byte) {
	switch reg {
	case intStatus:
		r[0] = b.Status
		return
	case fifoData:
		for i := range r {
			if len(b.FIFO) == 0 {
				r[i] = 0
				continue
			}
			r[i] = b.FIFO[b.fifoPos]
			b.fifoPos = (b.fifoPos + 1) % len(b.FIFO)
		}
		return
	}
	for i := range r {
		if int(reg)+i < len(b.Regs) {
			r[i] = b.Regs[int(reg)+i]
		}
	}
}

func (b *Bus) write(reg, v byte) {
	b.Writes = append(b.Writes, Write{Reg: reg, Value: v})
	if reg == modeCfg && !b.StuckReset {
		v &^= resetBit
	}
	b.Regs[reg] = v
}

// TxCount returns the number of transactions on reg, failed or not.
func (b *Bus) TxCount(reg byte) int {
	return b.Transactions[reg]
}

// ReadCount returns the number of successful reads of reg.
func (b *Bus) ReadCount(reg byte) int {
	return b.Reads[reg]
}
