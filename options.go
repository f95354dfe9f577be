package hrc

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cgxeiji/hrc/max30100"
)

// An Option configures an acquisition.
type Option func(a *Acquisition) Option

// OnBus can be used to specify I²C bus name
// ("/dev/i2c-2", "I2C2", "2"). By default, the bus name is "", which selects
// the first available bus. It is only used by Open.
func OnBus(name string) Option {
	return func(a *Acquisition) Option {
		old := a.bus
		a.bus = name
		return OnBus(old)
	}
}

// OnAddr can be used to specify alternative I²C address.
// By default, the address is 0x57.
func OnAddr(addr uint16) Option {
	return func(a *Acquisition) Option {
		old := a.addr
		a.addr = addr
		return OnAddr(old)
	}
}

// WithLogger sets the logger for diagnostics. By default, the logrus
// standard logger is used.
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Acquisition) Option {
		old := a.log
		a.log = l
		return WithLogger(old)
	}
}

// WithResetPoll bounds the wait for the soft reset to complete. By default,
// 50 polls 1ms apart.
func WithResetPoll(p max30100.Poll) Option {
	return func(a *Acquisition) Option {
		old := a.resetPoll
		a.resetPoll = p
		return WithResetPoll(old)
	}
}

// WithResetSettle sets how long Startup waits after the soft reset completes
// before configuring the sensor. By default, 50ms. Zero disables the wait.
func WithResetSettle(d time.Duration) Option {
	return func(a *Acquisition) Option {
		old := a.settle
		a.settle = d
		return WithResetSettle(old)
	}
}

// WithFIFOPoll bounds the wait for the FIFO almost full flag. By default, 500
// polls 1ms apart, enough for 16 samples at 50 samples/s.
func WithFIFOPoll(p max30100.Poll) Option {
	return func(a *Acquisition) Option {
		old := a.fifoPoll
		a.fifoPoll = p
		return WithFIFOPoll(old)
	}
}

// WithTemperaturePoll bounds the wait for a temperature conversion. By
// default, 100 polls 1ms apart.
func WithTemperaturePoll(p max30100.Poll) Option {
	return func(a *Acquisition) Option {
		old := a.tempPoll
		a.tempPoll = p
		return WithTemperaturePoll(old)
	}
}

// WithLEDCurrent sets the IR and red LED current code used by Startup. By
// default, max30100.Current11_0 (11.0mA).
func WithLEDCurrent(c byte) Option {
	return func(a *Acquisition) Option {
		old := a.current
		a.current = c
		return WithLEDCurrent(old)
	}
}
