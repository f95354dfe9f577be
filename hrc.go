// Package hrc acquires heart-rate, SpO2 and die temperature data from a
// MAX30100 sensor on a Linux I²C bus.
//
// An Acquisition owns the sensor state. Call Startup once, then Collect (or
// Cycle) on every poll tick. Any bus failure or status timeout leaves the
// acquisition Faulted until Startup is called again.
package hrc

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"

	"github.com/cgxeiji/hrc/max30100"
)

// State is the lifecycle state of an Acquisition.
type State int

// Acquisition states, in startup order.
const (
	Uninitialized State = iota
	Reset
	Configured
	Streaming
	Faulted
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Reset:
		return "reset"
	case Configured:
		return "configured"
	case Streaming:
		return "streaming"
	case Faulted:
		return "faulted"
	}
	return "unknown"
}

var (
	// ErrNotStreaming is returned when samples or temperature are requested
	// before Startup completed, or after a fault.
	ErrNotStreaming = errors.New("hrc: sensor is not streaming")
)

// Reading is the result of one collection cycle.
type Reading struct {
	// Samples is one FIFO drain, oldest first.
	Samples []max30100.Sample
	// Overflow is the FIFO overflow counter read before the drain.
	Overflow byte
	// Temperature is the die temperature in Celsius.
	Temperature float64
	// Interval is the time since the previous FIFO almost full event, or 0
	// on the first cycle after Startup.
	Interval time.Duration
}

// A Reporter receives the temperature of every collection cycle, usually to
// ship it as telemetry.
type Reporter interface {
	Report(celsius float64) error
}

// Acquisition drives a MAX30100 from power-on to streaming and collects its
// data. It is not safe for concurrent use.
type Acquisition struct {
	dev    *max30100.Device
	closer io.Closer
	state  State

	monitor Monitor
	clock   func() time.Time
	sleep   func(time.Duration)
	log     logrus.FieldLogger

	bus       string
	addr      uint16
	resetPoll max30100.Poll
	fifoPoll  max30100.Poll
	tempPoll  max30100.Poll
	settle    time.Duration
	current   byte

	// PartID and RevID are read during Startup for diagnostics.
	PartID byte
	RevID  byte
}

func newAcquisition(options ...Option) *Acquisition {
	a := &Acquisition{
		clock:     time.Now,
		sleep:     time.Sleep,
		log:       logrus.StandardLogger(),
		resetPoll: max30100.Poll{Interval: time.Millisecond, Attempts: 50},
		fifoPoll:  max30100.Poll{Interval: time.Millisecond, Attempts: 500},
		tempPoll:  max30100.Poll{Interval: time.Millisecond, Attempts: 100},
		settle:    50 * time.Millisecond,
		current:   max30100.Current11_0,
	}
	for _, opt := range options {
		opt(a)
	}

	return a
}

// New returns an Acquisition for a sensor on an already opened bus. The bus
// stays owned by the caller and is not closed by Close. It does not touch the
// device.
func New(bus i2c.Bus, options ...Option) *Acquisition {
	a := newAcquisition(options...)
	a.dev = max30100.New(bus, a.addr)

	return a
}

// Open initializes the host, opens the I²C bus selected with OnBus (the first
// available bus by default) and returns an Acquisition that owns it.
func Open(options ...Option) (*Acquisition, error) {
	a := newAcquisition(options...)

	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "hrc: could not initialize host")
	}

	bus, err := i2creg.Open(a.bus)
	if err != nil {
		return nil, errors.Wrap(err, "hrc: could not open I2C bus")
	}
	a.dev = max30100.New(bus, a.addr)
	a.closer = bus

	return a, nil
}

// State returns the current lifecycle state.
func (a *Acquisition) State() State {
	return a.state
}

// Device returns the underlying register-level driver.
func (a *Acquisition) Device() *max30100.Device {
	return a.dev
}

// Monitor returns the FIFO timing monitor.
func (a *Acquisition) Monitor() *Monitor {
	return &a.monitor
}

// fail wraps err and moves the acquisition to Faulted when err comes from
// the bus or a status timeout.
func (a *Acquisition) fail(err error, msg string) error {
	var te *max30100.TransportError
	var to *max30100.TimeoutError
	if errors.As(err, &te) || errors.As(err, &to) {
		a.state = Faulted
	}

	return errors.Wrap(err, "hrc: "+msg)
}

// Startup resets the sensor, waits for it to settle (see WithResetSettle) and
// configures it for streaming: SpO2 mode, high resolution, 400 samples/s,
// 800µs pulses, the configured LED currents and the almost full, temperature,
// heart rate and SpO2 interrupts. It returns once the FIFO has filled once and
// the first temperature was converted, with the FIFO cleared.
//
// Startup can be called again at any time, in particular to recover from
// Faulted.
func (a *Acquisition) Startup() error {
	if a.current > max30100.MaxCurrent {
		return &max30100.ConfigurationError{
			Field: "LED current",
			Value: int(a.current),
			Max:   int(max30100.MaxCurrent),
		}
	}

	a.state = Uninitialized
	a.monitor.Reset()
	a.identify()

	a.state = Reset
	if err := a.dev.Reset(a.resetPoll); err != nil {
		return a.fail(err, "could not reset sensor")
	}
	if a.settle > 0 {
		a.sleep(a.settle)
	}

	a.state = Configured
	if err := a.stream(); err != nil {
		return a.fail(err, "could not start streaming")
	}
	a.state = Streaming

	return nil
}

// identify reads the part and revision IDs. Failures are only logged.
func (a *Acquisition) identify() {
	var err error
	if a.RevID, err = a.dev.RevID(); err != nil {
		a.log.WithError(err).Warn("could not get revision ID")
	}
	if a.PartID, err = a.dev.PartID(); err != nil {
		a.log.WithError(err).Warn("could not get part ID")
	}
	log := a.log.WithFields(logrus.Fields{
		"part_id": a.PartID,
		"rev_id":  a.RevID,
	})
	if a.PartID != max30100.PartID {
		log.WithField("want", byte(max30100.PartID)).Warn("unexpected part ID")
		return
	}
	log.Info("sensor identified")
}

func (a *Acquisition) stream() error {
	if _, err := a.dev.Options(
		max30100.Mode(max30100.ModeSpO2),
		max30100.HighResolution(true),
		max30100.SampleRate(max30100.SR400),
		max30100.PulseWidth(max30100.PW800),
		max30100.IRCurrent(a.current),
		max30100.RedCurrent(a.current),
		max30100.InterruptEnable(max30100.AlmostFull|max30100.TempReady|max30100.HRReady|max30100.SpO2Ready),
	); err != nil {
		return err
	}

	if err := a.dev.WaitAlmostFull(a.fifoPoll); err != nil {
		return err
	}

	t, err := a.freshTemperature()
	if err != nil {
		return err
	}
	a.log.WithField("temperature", t).Info("sensor streaming")

	return a.dev.ClearFIFO()
}

func (a *Acquisition) freshTemperature() (float64, error) {
	if err := a.dev.StartTemperature(); err != nil {
		return 0, err
	}
	if err := a.dev.WaitTemperature(a.tempPoll); err != nil {
		return 0, err
	}

	return a.dev.Temperature()
}

// Temperature returns the last converted die temperature in Celsius without
// starting a new conversion, so the value may be stale. Use Collect for a
// fresh value.
func (a *Acquisition) Temperature() (float64, error) {
	if a.state != Streaming {
		return 0, ErrNotStreaming
	}
	t, err := a.dev.Temperature()
	if err != nil {
		return 0, a.fail(err, "could not read temperature")
	}

	return t, nil
}

// Drain waits for the FIFO to be almost full and returns its samples, oldest
// first. The almost full event is recorded by the timing monitor.
func (a *Acquisition) Drain() ([]max30100.Sample, error) {
	samples, _, err := a.drain()
	return samples, err
}

func (a *Acquisition) drain() ([]max30100.Sample, time.Duration, error) {
	if a.state != Streaming {
		return nil, 0, ErrNotStreaming
	}
	if err := a.dev.WaitAlmostFull(a.fifoPoll); err != nil {
		return nil, 0, a.fail(err, "could not drain FIFO")
	}
	interval := a.monitor.Mark(a.clock())

	samples, err := a.dev.ReadFIFO()
	if err != nil {
		return nil, 0, a.fail(err, "could not drain FIFO")
	}

	return samples, interval, nil
}

// Collect runs one collection cycle: it reads the overflow counter, drains
// the FIFO and converts a fresh temperature.
func (a *Acquisition) Collect() (Reading, error) {
	if a.state != Streaming {
		return Reading{}, ErrNotStreaming
	}

	var r Reading
	var err error
	if r.Overflow, err = a.dev.Overflow(); err != nil {
		return Reading{}, a.fail(err, "could not read overflow counter")
	}
	if r.Overflow != 0 {
		a.log.WithField("overflow", r.Overflow).Warn("FIFO overflow, samples lost")
	}

	if r.Samples, r.Interval, err = a.drain(); err != nil {
		return Reading{}, err
	}

	if r.Temperature, err = a.freshTemperature(); err != nil {
		return Reading{}, a.fail(err, "could not read temperature")
	}

	return r, nil
}

// Cycle runs Collect and hands the temperature to r. Reporter errors are
// returned but do not change the acquisition state.
func (a *Acquisition) Cycle(r Reporter) (Reading, error) {
	reading, err := a.Collect()
	if err != nil {
		return reading, err
	}
	if err := r.Report(reading.Temperature); err != nil {
		return reading, errors.Wrap(err, "hrc: could not report temperature")
	}

	return reading, nil
}

// Close puts the sensor in power-save mode and, if the bus was opened by
// Open, closes it.
func (a *Acquisition) Close() error {
	err := a.dev.Shutdown()
	if a.closer != nil {
		err = multierr.Combine(err, a.closer.Close())
	}
	a.state = Uninitialized

	return err
}
