// Command hrc starts a MAX30100 sensor and prints its die temperature and
// FIFO statistics on every poll tick.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/cgxeiji/hrc"
)

type stdoutReporter struct{}

func (stdoutReporter) Report(celsius float64) error {
	_, err := fmt.Printf("temp = %02.2f°C\n", celsius)
	return err
}

func main() {
	bus := flag.String("bus", "", `I²C bus name ("/dev/i2c-1", "I2C1", "1"), empty for the first available`)
	addr := flag.Uint("addr", 0x57, "sensor I²C address")
	every := flag.Duration("interval", 500*time.Millisecond, "poll interval")
	dump := flag.Bool("dump", false, "dump the sensor registers after startup and exit")
	flag.Parse()

	logger := logrus.New()

	open := func() (*hrc.Acquisition, error) {
		return hrc.Open(
			hrc.OnBus(*bus),
			hrc.OnAddr(uint16(*addr)),
			hrc.WithLogger(logger),
		)
	}
	if err := run(logger, open, *every, *dump); err != nil {
		logger.WithError(err).Error("hrc stopped")
		os.Exit(1)
	}
}

// run owns the sensor until an interrupt, a register dump or a fault. The
// sensor is always shut down before run returns.
func run(logger logrus.FieldLogger, open func() (*hrc.Acquisition, error), every time.Duration, dump bool) (err error) {
	sensor, err := open()
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, sensor.Close())
	}()

	if err := sensor.Startup(); err != nil {
		return err
	}
	fmt.Printf("MAX30100 rev.%d detected\n", sensor.RevID)

	if dump {
		regs, err := sensor.Device().Dump()
		for _, r := range regs {
			fmt.Println(r)
		}
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return nil
		case <-t.C:
		}

		r, err := sensor.Cycle(stdoutReporter{})
		if err != nil {
			if sensor.State() == hrc.Faulted {
				return err
			}
			logger.WithError(err).Warn("cycle failed")
			continue
		}
		fmt.Printf("  %d samples, first IR = %d red = %d, interval = %v, rate = %.1f samples/s\n",
			len(r.Samples), r.Samples[0].IR, r.Samples[0].Red, r.Interval, sensor.Monitor().Rate())
	}
}
