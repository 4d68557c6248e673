// Package robot drives the serial-attached string actuator: a chord shape
// becomes one frame that frets and strums all six strings at once.
package robot

// Wire constants shared with the actuator firmware.
const (
	OpenFret      = 255 // no fret held on the string
	NumStrings    = 6
	MaxFret       = 11
	CmdApplyFrame = 0x10
	SOF0          = 0xAA
	SOF1          = 0x55

	payloadLen = NumStrings + 4
)

// Frame is the complete hand position for one strum. The firmware replaces
// its whole state with each frame, so there are no partial updates.
type Frame struct {
	Fret      [NumStrings]byte // low E first; OpenFret leaves the string free
	StrumMask byte             // bit i strums string i
	ProfileID byte
	Duration  byte
	Seq       byte
}

// Encode lays the frame out for the serial line. LEN counts CMD plus the
// payload and the trailing byte XORs everything from LEN onward:
//
//	AA 55 LEN CMD fret×6 mask profile duration seq CKS
func (f *Frame) Encode() []byte {
	out := make([]byte, 0, 4+payloadLen+1)
	out = append(out, SOF0, SOF1, payloadLen+1, CmdApplyFrame)
	out = append(out, f.Fret[:]...)
	out = append(out, f.StrumMask, f.ProfileID, f.Duration, f.Seq)

	var cks byte
	for _, b := range out[2:] {
		cks ^= b
	}
	return append(out, cks)
}

// EmptyFrame lifts every string and strums nothing.
func EmptyFrame(seq byte) Frame {
	f := Frame{Seq: seq}
	for i := range f.Fret {
		f.Fret[i] = OpenFret
	}
	return f
}
