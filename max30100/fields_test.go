package max30100

import (
	"errors"
	"testing"
)

type record interface {
	Encode() (byte, error)
}

var decoders = map[string]func(byte) record{
	"mode":       func(b byte) record { return DecodeModeConfig(b) },
	"spo2":       func(b byte) record { return DecodeSpO2Config(b) },
	"led":        func(b byte) record { return DecodeLEDConfig(b) },
	"interrupts": func(b byte) record { return DecodeInterrupts(b) },
}

func TestRoundTrip(t *testing.T) {
	for name, decode := range decoders {
		for i := 0; i < 256; i++ {
			b := byte(i)
			got, err := decode(b).Encode()
			if err != nil {
				t.Fatalf("%s: Encode(Decode(%#02x)) failed: %v", name, b, err)
			}
			if got != b {
				t.Errorf("%s: Encode(Decode(%#02x)) = %#02x", name, b, got)
			}
		}
	}
}

var registerFields = map[string][]field{
	"mode": {fieldMode, fieldTempEnable, fieldReset, fieldShutdown},
	"spo2": {fieldPulseWidth, fieldSampleRate, fieldHighRes},
	"led":  {fieldIRCurrent, fieldRedCurrent},
	"interrupts": {
		fieldPowerReady, fieldSpO2Ready, fieldHRReady, fieldTempReady, fieldAlmostFull,
	},
}

func TestFieldIsolation(t *testing.T) {
	for name, fields := range registerFields {
		for _, f := range fields {
			for i := 0; i < 256; i++ {
				b := byte(i)
				for v := byte(0); v <= f.Max(); v++ {
					got, err := f.Set(b, v)
					if err != nil {
						t.Fatalf("%s: %s.Set(%#02x, %d): %v", name, f.Name, b, v, err)
					}
					if f.Get(got) != v {
						t.Fatalf("%s: %s = %d after Set(%d)", name, f.Name, f.Get(got), v)
					}
					if got&^f.Mask() != b&^f.Mask() {
						t.Fatalf("%s: %s.Set(%#02x, %d) = %#02x changed other bits", name, f.Name, b, v, got)
					}
					for _, other := range fields {
						if other != f && other.Get(got) != other.Get(b) {
							t.Fatalf("%s: setting %s changed %s", name, f.Name, other.Name)
						}
					}
				}
			}
		}
	}
}

func TestFieldsDoNotOverlap(t *testing.T) {
	for name, fields := range registerFields {
		var seen byte
		for _, f := range fields {
			if seen&f.Mask() != 0 {
				t.Errorf("%s: %s overlaps another field", name, f.Name)
			}
			seen |= f.Mask()
		}
	}
}

func TestFieldSetOutOfRange(t *testing.T) {
	tests := []struct {
		f field
		v byte
	}{
		{fieldMode, 8},
		{fieldPulseWidth, 4},
		{fieldSampleRate, 8},
		{fieldIRCurrent, 16},
		{fieldRedCurrent, 0xFF},
	}
	for _, tt := range tests {
		got, err := tt.f.Set(0xA5, tt.v)
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Errorf("%s.Set(%d): want ConfigurationError, got %v", tt.f.Name, tt.v, err)
			continue
		}
		if cfgErr.Max != int(tt.f.Max()) {
			t.Errorf("%s: Max = %d, want %d", tt.f.Name, cfgErr.Max, tt.f.Max())
		}
		if got != 0xA5 {
			t.Errorf("%s.Set(%d) modified the byte: %#02x", tt.f.Name, tt.v, got)
		}
	}
}

func TestDecode(t *testing.T) {
	m := DecodeModeConfig(0b1100_1011)
	if m.Mode != ModeSpO2 || !m.TempEnable || !m.Reset || !m.Shutdown {
		t.Errorf("DecodeModeConfig(0xCB) = %+v", m)
	}

	s := DecodeSpO2Config(0b0101_0010)
	if s.PulseWidth != PW800 || s.SampleRate != SR400 || !s.HighRes {
		t.Errorf("DecodeSpO2Config(0x52) = %+v", s)
	}

	l := DecodeLEDConfig(0x3F)
	if l.IR != Current50_0 || l.Red != Current11_0 {
		t.Errorf("DecodeLEDConfig(0x3F) = %+v", l)
	}

	i := DecodeInterrupts(0b1001_0001)
	if !i.AlmostFull || !i.SpO2Ready || !i.PowerReady || i.TempReady || i.HRReady {
		t.Errorf("DecodeInterrupts(0x91) = %+v", i)
	}
}

func TestEncodeOutOfRange(t *testing.T) {
	if _, err := (LEDConfig{IR: 16}).Encode(); err == nil {
		t.Error("LEDConfig{IR: 16}.Encode() did not fail")
	}
	if _, err := (SpO2Config{SampleRate: 9}).Encode(); err == nil {
		t.Error("SpO2Config{SampleRate: 9}.Encode() did not fail")
	}
	if _, err := (ModeConfig{Mode: 8}).Encode(); err == nil {
		t.Error("ModeConfig{Mode: 8}.Encode() did not fail")
	}
}

func TestMaxCurrent(t *testing.T) {
	for _, f := range []field{fieldIRCurrent, fieldRedCurrent} {
		if f.Max() != MaxCurrent {
			t.Errorf("%s: max %d, want MaxCurrent (%d)", f.Name, f.Max(), MaxCurrent)
		}
	}
	if _, err := (LEDConfig{IR: MaxCurrent, Red: MaxCurrent}).Encode(); err != nil {
		t.Errorf("LEDConfig with MaxCurrent: %v", err)
	}
}
