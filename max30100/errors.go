package max30100

import (
	"fmt"
	"time"
)

// Direction is the direction of a failed bus transaction.
type Direction int

const (
	// DirRead is a register or block read.
	DirRead Direction = iota
	// DirWrite is a register write.
	DirWrite
)

func (d Direction) String() string {
	if d == DirWrite {
		return "write"
	}
	return "read"
}

// TransportError is returned when a bus transaction fails (device absent,
// NACK, I/O fault). The driver never retries.
type TransportError struct {
	Reg byte
	Dir Direction
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("max30100: %v of register %#02x failed: %v", e.Dir, e.Reg, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TimeoutError is returned when a bounded status poll never observed the
// expected condition.
type TimeoutError struct {
	Reg      byte
	Flag     byte
	Want     bool
	Attempts int
	Elapsed  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("max30100: timeout waiting for %#02x in register %#02x to be %v (%d polls, %v)",
		e.Flag, e.Reg, e.Want, e.Attempts, e.Elapsed)
}

// ConfigurationError is returned when a field value does not fit in its bit
// range, or a request is outside what the device accepts. It never reaches
// the bus.
type ConfigurationError struct {
	Field string
	Value int
	Max   int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("max30100: %s value %d out of range (max %d)", e.Field, e.Value, e.Max)
}
