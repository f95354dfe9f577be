package max30100

// field is a named bit range inside a register byte.
type field struct {
	Name  string
	Shift uint8
	Width uint8
}

// Mask returns the bits covered by the field.
func (f field) Mask() byte {
	return byte((1<<f.Width)-1) << f.Shift
}

// Max returns the largest value the field can hold.
func (f field) Max() byte {
	return byte((1 << f.Width) - 1)
}

// Get extracts the field from b.
func (f field) Get(b byte) byte {
	return (b & f.Mask()) >> f.Shift
}

// Set returns b with the field replaced by v. Bits outside the field are left
// untouched.
func (f field) Set(b, v byte) (byte, error) {
	if v > f.Max() {
		return b, &ConfigurationError{Field: f.Name, Value: int(v), Max: int(f.Max())}
	}
	return b&^f.Mask() | v<<f.Shift, nil
}

func (f field) flag(b byte) bool {
	return f.Get(b) != 0
}

func (f field) setFlag(b byte, on bool) byte {
	if on {
		return b | f.Mask()
	}
	return b &^ f.Mask()
}

// Mode configuration fields
var (
	fieldMode       = field{Name: "mode", Shift: 0, Width: 3}
	fieldTempEnable = field{Name: "temperature enable", Shift: 3, Width: 1}
	fieldReset      = field{Name: "reset", Shift: 6, Width: 1}
	fieldShutdown   = field{Name: "shutdown", Shift: 7, Width: 1}
)

// SpO2 configuration fields
var (
	fieldPulseWidth = field{Name: "pulse width", Shift: 0, Width: 2}
	fieldSampleRate = field{Name: "sample rate", Shift: 2, Width: 3}
	fieldHighRes    = field{Name: "high resolution", Shift: 6, Width: 1}
)

// LED configuration fields
var (
	fieldIRCurrent  = field{Name: "IR current", Shift: 0, Width: 4}
	fieldRedCurrent = field{Name: "red current", Shift: 4, Width: 4}
)

// Interrupt fields
var (
	fieldPowerReady = field{Name: "power ready", Shift: 0, Width: 1}
	fieldSpO2Ready  = field{Name: "SpO2 ready", Shift: 4, Width: 1}
	fieldHRReady    = field{Name: "heart rate ready", Shift: 5, Width: 1}
	fieldTempReady  = field{Name: "temperature ready", Shift: 6, Width: 1}
	fieldAlmostFull = field{Name: "almost full", Shift: 7, Width: 1}
)

// ModeConfig is the decoded mode configuration register.
type ModeConfig struct {
	Mode       byte
	TempEnable bool
	Reset      bool
	Shutdown   bool

	reserved byte
}

// DecodeModeConfig decodes the mode configuration register.
func DecodeModeConfig(b byte) ModeConfig {
	return ModeConfig{
		Mode:       fieldMode.Get(b),
		TempEnable: fieldTempEnable.flag(b),
		Reset:      fieldReset.flag(b),
		Shutdown:   fieldShutdown.flag(b),
		reserved:   b &^ (fieldMode.Mask() | fieldTempEnable.Mask() | fieldReset.Mask() | fieldShutdown.Mask()),
	}
}

// Encode returns the register byte for c.
func (c ModeConfig) Encode() (byte, error) {
	b, err := fieldMode.Set(c.reserved, c.Mode)
	if err != nil {
		return 0, err
	}
	b = fieldTempEnable.setFlag(b, c.TempEnable)
	b = fieldReset.setFlag(b, c.Reset)
	b = fieldShutdown.setFlag(b, c.Shutdown)
	return b, nil
}

// SpO2Config is the decoded SpO2 configuration register.
type SpO2Config struct {
	PulseWidth byte
	SampleRate byte
	HighRes    bool

	reserved byte
}

// DecodeSpO2Config decodes the SpO2 configuration register.
func DecodeSpO2Config(b byte) SpO2Config {
	return SpO2Config{
		PulseWidth: fieldPulseWidth.Get(b),
		SampleRate: fieldSampleRate.Get(b),
		HighRes:    fieldHighRes.flag(b),
		reserved:   b &^ (fieldPulseWidth.Mask() | fieldSampleRate.Mask() | fieldHighRes.Mask()),
	}
}

// Encode returns the register byte for c.
func (c SpO2Config) Encode() (byte, error) {
	b, err := fieldPulseWidth.Set(c.reserved, c.PulseWidth)
	if err != nil {
		return 0, err
	}
	if b, err = fieldSampleRate.Set(b, c.SampleRate); err != nil {
		return 0, err
	}
	return fieldHighRes.setFlag(b, c.HighRes), nil
}

// LEDConfig is the decoded LED configuration register. Both currents are
// 4-bit codes, see the Current* constants.
type LEDConfig struct {
	IR  byte
	Red byte
}

// DecodeLEDConfig decodes the LED configuration register.
func DecodeLEDConfig(b byte) LEDConfig {
	return LEDConfig{
		IR:  fieldIRCurrent.Get(b),
		Red: fieldRedCurrent.Get(b),
	}
}

// Encode returns the register byte for c.
func (c LEDConfig) Encode() (byte, error) {
	b, err := fieldIRCurrent.Set(0, c.IR)
	if err != nil {
		return 0, err
	}
	return fieldRedCurrent.Set(b, c.Red)
}

// Interrupts is the decoded interrupt status or interrupt enable register.
// Both registers share the same bit positions.
type Interrupts struct {
	PowerReady bool
	SpO2Ready  bool
	HRReady    bool
	TempReady  bool
	AlmostFull bool

	reserved byte
}

var interruptFields = fieldPowerReady.Mask() | fieldSpO2Ready.Mask() | fieldHRReady.Mask() |
	fieldTempReady.Mask() | fieldAlmostFull.Mask()

// DecodeInterrupts decodes an interrupt status or enable register.
func DecodeInterrupts(b byte) Interrupts {
	return Interrupts{
		PowerReady: fieldPowerReady.flag(b),
		SpO2Ready:  fieldSpO2Ready.flag(b),
		HRReady:    fieldHRReady.flag(b),
		TempReady:  fieldTempReady.flag(b),
		AlmostFull: fieldAlmostFull.flag(b),
		reserved:   b &^ interruptFields,
	}
}

// Encode returns the register byte for i.
func (i Interrupts) Encode() (byte, error) {
	b := i.reserved
	b = fieldPowerReady.setFlag(b, i.PowerReady)
	b = fieldSpO2Ready.setFlag(b, i.SpO2Ready)
	b = fieldHRReady.setFlag(b, i.HRReady)
	b = fieldTempReady.setFlag(b, i.TempReady)
	b = fieldAlmostFull.setFlag(b, i.AlmostFull)
	return b, nil
}
