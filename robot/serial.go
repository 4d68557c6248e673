package robot

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"go.bug.st/serial"

	"github.com/chase3718/chordviewer/chorddb"
)

// Port sends frames to the actuator over a serial line.
type Port struct {
	mu     sync.Mutex
	port   io.WriteCloser
	seq    byte
	logger *slog.Logger
}

// OpenSerial opens the named serial device at the given baud rate.
func OpenSerial(name string, baud int, logger *slog.Logger) (*Port, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("serial: open %s at %d: %w", name, baud, err)
	}
	logger.Info("serial: port opened", "device", name, "baud", baud)
	return &Port{port: p, logger: logger}, nil
}

// ListPorts returns the serial devices present on the system.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}

// SendFrame encodes and writes a frame.
func (p *Port) SendFrame(f Frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sendLocked(f)
}

func (p *Port) sendLocked(f Frame) error {
	data := f.Encode()
	n, err := p.port.Write(data)
	if err != nil {
		return fmt.Errorf("serial: write: %w", err)
	}
	p.logger.Info("serial: frame sent", "bytes", n, "seq", f.Seq, "strum_mask", f.StrumMask)
	return nil
}

// SendShape frets and strums a chord position, numbering frames in order.
func (p *Port) SendShape(pos chorddb.Position) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, err := ShapeFrame(pos, p.seq)
	if err != nil {
		return err
	}
	if err := p.sendLocked(f); err != nil {
		return err
	}
	p.seq++
	return nil
}

// Release clears every string.
func (p *Port) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.sendLocked(EmptyFrame(p.seq)); err != nil {
		return err
	}
	p.seq++
	return nil
}

// Close closes the underlying serial port.
func (p *Port) Close() error {
	p.logger.Info("serial: closing port")
	return p.port.Close()
}
