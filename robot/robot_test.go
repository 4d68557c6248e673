package robot

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chase3718/chordviewer/chorddb"
)

func TestFrameEncode(t *testing.T) {
	f := Frame{
		Fret:      [NumStrings]byte{OpenFret, 3, 2, 0, 1, 0},
		StrumMask: 0b111110,
		Duration:  20,
		Seq:       7,
	}
	got := f.Encode()
	require.Len(t, got, 15)
	assert.Equal(t, []byte{SOF0, SOF1, 11, CmdApplyFrame}, got[:4])
	assert.Equal(t, []byte{OpenFret, 3, 2, 0, 1, 0, 0b111110, 0, 20, 7}, got[4:14])

	cks := byte(0)
	for _, b := range got[2:14] {
		cks ^= b
	}
	assert.Equal(t, cks, got[14])
}

func TestEmptyFrameEncode(t *testing.T) {
	f := EmptyFrame(3)
	got := f.Encode()
	assert.Equal(t, []byte{SOF0, SOF1, 11, CmdApplyFrame,
		OpenFret, OpenFret, OpenFret, OpenFret, OpenFret, OpenFret, 0, 0, 0, 3}, got[:14])
	// six 0xFF bytes cancel out, leaving LEN ^ CMD ^ seq
	assert.Equal(t, byte(11^CmdApplyFrame^3), got[14])
}

func TestShapeFrameOpenC(t *testing.T) {
	p := chorddb.Position{Frets: []int{-1, 3, 2, 0, 1, 0}, BaseFret: 1}
	f, err := ShapeFrame(p, 1)
	require.NoError(t, err)
	assert.Equal(t, [NumStrings]byte{OpenFret, 3, 2, OpenFret, 1, OpenFret}, f.Fret)
	assert.Equal(t, byte(0b111110), f.StrumMask, "muted low E is not strummed")
	assert.Equal(t, byte(1), f.Seq)
	assert.Equal(t, byte(DefaultDuration), f.Duration)
}

func TestShapeFrameBaseFret(t *testing.T) {
	p := chorddb.Position{Frets: []int{-1, 1, 3, 3, 3, 1}, BaseFret: 3}
	f, err := ShapeFrame(p, 0)
	require.NoError(t, err)
	assert.Equal(t, [NumStrings]byte{OpenFret, 3, 5, 5, 5, 3}, f.Fret)
}

func TestShapeFrameOutOfRange(t *testing.T) {
	p := chorddb.Position{Frets: []int{1, 3, 3, 2, 1, 1}, BaseFret: 10}
	_, err := ShapeFrame(p, 0)
	assert.Error(t, err)
}

type fakePort struct {
	bytes.Buffer
	closed bool
	err    error
}

func (f *fakePort) Write(p []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.Buffer.Write(p)
}

func (f *fakePort) Close() error {
	f.closed = true
	return nil
}

func TestPortSendShape(t *testing.T) {
	fake := &fakePort{}
	p := &Port{port: fake, logger: slog.Default()}

	pos := chorddb.Position{Frets: []int{3, 2, 0, 0, 0, 3}, BaseFret: 1}
	require.NoError(t, p.SendShape(pos))
	require.NoError(t, p.Release())
	require.NoError(t, p.Close())

	out := fake.Bytes()
	require.Len(t, out, 30)
	assert.Equal(t, byte(0), out[13], "first frame seq")
	assert.Equal(t, byte(1), out[28], "second frame seq")
	assert.Equal(t, byte(0), out[15+10], "release strums nothing")
	assert.True(t, fake.closed)
}

func TestPortWriteError(t *testing.T) {
	p := &Port{port: &fakePort{err: errors.New("unplugged")}, logger: slog.Default()}
	assert.Error(t, p.SendShape(chorddb.Position{Frets: []int{0, 0, 0, 0, 0, 0}, BaseFret: 1}))
	assert.Equal(t, byte(0), p.seq, "seq only advances on success")
}
