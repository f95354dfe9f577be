package max30100

import (
	"fmt"

	"periph.io/x/periph/conn/physic"
)

// StartTemperature starts a single temperature conversion. The device clears
// the enable bit when the conversion ends.
func (d *Device) StartTemperature() error {
	if _, err := d.setField(ModeCfg, fieldTempEnable, 1); err != nil {
		return fmt.Errorf("max30100: could not enable temperature: %w", err)
	}
	return nil
}

// WaitTemperature polls the interrupt status register until the temperature
// ready flag is set.
func (d *Device) WaitTemperature(p Poll) error {
	if err := d.waitUntil(IntStatus, TempReady, true, p); err != nil {
		return fmt.Errorf("max30100: error waiting for temperature: %w", err)
	}
	return nil
}

// Temperature returns the last converted temperature of the device in
// Celsius. It does not start a conversion: the value is only fresh if
// StartTemperature and WaitTemperature were called before.
func (d *Device) Temperature() (float64, error) {
	i, err := d.Read(TempInt)
	if err != nil {
		return 0, fmt.Errorf("max30100: could not read integer part of temperature: %w", err)
	}

	f, err := d.Read(TempFrac)
	if err != nil {
		return 0, fmt.Errorf("max30100: could not read fractional part of temperature: %w", err)
	}

	return Celsius(i, f), nil
}

// Celsius converts the raw temperature registers: a signed integer part and a
// fraction in steps of 0.0625°C.
func Celsius(integer, fraction byte) float64 {
	return float64(int8(integer)) + float64(fraction)*tempLSB
}

// Sense fills e.Temperature with the last converted temperature. Pressure
// and humidity are left untouched.
func (d *Device) Sense(e *physic.Env) error {
	c, err := d.Temperature()
	if err != nil {
		return err
	}
	e.Temperature = physic.ZeroCelsius + physic.Temperature(c*float64(physic.Kelvin))

	return nil
}
