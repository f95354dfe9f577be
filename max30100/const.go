package max30100

// Register addresses
const (
	IntStatus = 0x00
	IntEnable = 0x01
	FIFOWrPtr = 0x02
	OvfCount  = 0x03
	FIFORdPtr = 0x04
	FIFOData  = 0x05
	ModeCfg   = 0x06
	SpO2Cfg   = 0x07
	LEDCfg    = 0x09
	TempInt   = 0x16
	TempFrac  = 0x17
	RegRevID  = 0xFE
	RegPartID = 0xFF
)

// Device constants
const (
	Addr   = 0x57
	PartID = 0x11

	// FIFODepth is the number of sample slots in the FIFO.
	FIFODepth = 16
	// SampleSize is the number of bytes of one FIFO slot (IR and red, 16 bits
	// each).
	SampleSize = 4
	// BlockSize is the number of bytes read per FIFO transaction.
	BlockSize = 16
	// MaxTransfer is the largest block read the bus accepts.
	MaxTransfer = 32
)

// Interrupt flags, shared by the status and enable registers.
const (
	AlmostFull byte = (1 << 7)
	TempReady  byte = (1 << 6)
	HRReady    byte = (1 << 5)
	SpO2Ready  byte = (1 << 4)
	PowerReady byte = (1 << 0)
)

// Mode control
const (
	ModeHR   byte = 0b010
	ModeSpO2 byte = 0b011
)

// SpO2 Sample Rate Control
const (
	SR50 byte = iota
	SR100
	SR167
	SR200
	SR400
	SR600
	SR800
	SR1000
)

// LED Pulse Width Control
const (
	PW200  byte = iota // 13-bit ADC resolution
	PW400              // 14-bit ADC resolution
	PW800              // 15-bit ADC resolution
	PW1600             // 16-bit ADC resolution
)

// LED Current Control
const (
	Current0 byte = iota
	Current4_4
	Current7_6
	Current11_0
	Current14_2
	Current17_4
	Current20_8
	Current24_0
	Current27_1
	Current30_6
	Current33_8
	Current37_0
	Current40_2
	Current43_6
	Current46_8
	Current50_0

	// MaxCurrent is the largest LED current code.
	MaxCurrent = Current50_0
)

// tempLSB is the weight of one step of the fractional temperature register.
const tempLSB = 0.0625
