package max30100

import "fmt"

// Option defines a functional option for the device.
type Option func(d *Device) (Option, error)

// Options set different configuration options and returns the previous value
// of the last option passed.
func (d *Device) Options(options ...Option) (Option, error) {
	var old Option
	var err error
	for _, opt := range options {
		old, err = opt(d)
		if err != nil {
			return nil, err
		}
	}

	return old, nil
}

// Mode sets the operation mode of the device (ModeHR or ModeSpO2).
func Mode(mode byte) Option {
	return func(d *Device) (Option, error) {
		old, err := d.setField(ModeCfg, fieldMode, mode)
		if err != nil {
			return nil, fmt.Errorf("max30100: could not configure mode: %w", err)
		}

		return Mode(old), nil
	}
}

// TemperatureEnable sets or clears the temperature enable bit.
func TemperatureEnable(on bool) Option {
	return func(d *Device) (Option, error) {
		old, err := d.setField(ModeCfg, fieldTempEnable, boolByte(on))
		if err != nil {
			return nil, fmt.Errorf("max30100: could not configure temperature: %w", err)
		}

		return TemperatureEnable(old != 0), nil
	}
}

// SampleRate sets the SpO2 sample rate control of the device.
func SampleRate(sr byte) Option {
	return func(d *Device) (Option, error) {
		old, err := d.setField(SpO2Cfg, fieldSampleRate, sr)
		if err != nil {
			return nil, fmt.Errorf("max30100: could not configure sample rate: %w", err)
		}

		return SampleRate(old), nil
	}
}

// PulseWidth sets the LED pulse width of the device.
func PulseWidth(pw byte) Option {
	return func(d *Device) (Option, error) {
		old, err := d.setField(SpO2Cfg, fieldPulseWidth, pw)
		if err != nil {
			return nil, fmt.Errorf("max30100: could not configure pulse width: %w", err)
		}

		return PulseWidth(old), nil
	}
}

// HighResolution enables or disables the 16-bit SpO2 ADC resolution.
func HighResolution(on bool) Option {
	return func(d *Device) (Option, error) {
		old, err := d.setField(SpO2Cfg, fieldHighRes, boolByte(on))
		if err != nil {
			return nil, fmt.Errorf("max30100: could not configure resolution: %w", err)
		}

		return HighResolution(old != 0), nil
	}
}

// IRCurrent sets the IR LED current code (Current0 to Current50_0).
func IRCurrent(c byte) Option {
	return func(d *Device) (Option, error) {
		old, err := d.setField(LEDCfg, fieldIRCurrent, c)
		if err != nil {
			return nil, fmt.Errorf("max30100: could not configure IR LED current: %w", err)
		}

		return IRCurrent(old), nil
	}
}

// RedCurrent sets the red LED current code (Current0 to Current50_0).
func RedCurrent(c byte) Option {
	return func(d *Device) (Option, error) {
		old, err := d.setField(LEDCfg, fieldRedCurrent, c)
		if err != nil {
			return nil, fmt.Errorf("max30100: could not configure red LED current: %w", err)
		}

		return RedCurrent(old), nil
	}
}

const enableMask = AlmostFull | TempReady | HRReady | SpO2Ready

// InterruptEnable sets the enabled interrupts to i, a combination of
// AlmostFull, TempReady, HRReady and SpO2Ready. Reserved bits are kept.
func InterruptEnable(i byte) Option {
	return func(d *Device) (Option, error) {
		if i&^enableMask != 0 {
			return nil, &ConfigurationError{Field: "interrupt enable", Value: int(i), Max: int(enableMask)}
		}
		old, err := d.update(IntEnable, func(b byte) (byte, error) {
			return b&^enableMask | i, nil
		})
		if err != nil {
			return nil, fmt.Errorf("max30100: could not configure interrupt flags: %w", err)
		}

		return InterruptEnable(old & enableMask), nil
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
