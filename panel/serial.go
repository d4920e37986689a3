package panel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// DefaultBaud applies when the serial descriptor names no rate
const DefaultBaud = 9600

// serialReadWindow bounds one read call on the port
const serialReadWindow = 100 * time.Millisecond

// maxPending caps buffered bytes without a newline
const maxPending = 4096

// Arduino and common USB-serial bridge vendor IDs, for "auto"
var preferredVIDs = map[string]bool{
	"2341": true,
	"2A03": true,
	"1A86": true,
	"10C4": true,
	"0403": true,
}

var ErrNoSerialPort = errors.New("no serial port found")

// Serial reads newline-terminated numbers from a serial device
// The port is opened lazily and reopened after an error. Each acquisition
// returns the most recent complete line, or the previous value when none
// arrived since.
type Serial struct {
	Port string
	Baud int

	mu      sync.Mutex
	port    serial.Port
	pending []byte
	last    float64
}

// ParseSerial accepts "PORT" or "PORT@BAUD"; PORT may be "auto"
func ParseSerial(desc string) (*Serial, error) {
	desc = strings.TrimSpace(desc)
	port, baudStr, hasBaud := strings.Cut(desc, "@")
	if port == "" {
		return nil, fmt.Errorf("serial: %w: empty port", ErrInvalidValue)
	}
	s := &Serial{Port: port, Baud: DefaultBaud}
	if hasBaud {
		b, err := strconv.Atoi(baudStr)
		if err != nil || b <= 0 {
			return nil, fmt.Errorf("serial: %w: baud %q", ErrInvalidValue, baudStr)
		}
		s.Baud = b
	}
	return s, nil
}

// String returns the PORT@BAUD form
func (s *Serial) String() string {
	return fmt.Sprintf("%s@%d", s.Port, s.Baud)
}

// Read returns the newest value received on the port
func (s *Serial) Read(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.port == nil {
		if err := s.open(); err != nil {
			return 0, err
		}
	}

	buf := make([]byte, 256)
	n, err := s.port.Read(buf)
	if err != nil {
		s.closeLocked()
		return 0, err
	}
	s.pending = append(s.pending, buf[:n]...)
	s.consumeLines()
	return s.last, nil
}

// Close releases the port
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *Serial) open() error {
	name := s.Port
	if name == "auto" {
		found, err := autoSelectPort()
		if err != nil {
			return err
		}
		name = found
	}
	port, err := serial.Open(name, &serial.Mode{BaudRate: s.Baud})
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	if err := port.SetReadTimeout(serialReadWindow); err != nil {
		_ = port.Close()
		return fmt.Errorf("set read timeout on %s: %w", name, err)
	}
	s.port = port
	s.pending = s.pending[:0]
	return nil
}

func (s *Serial) closeLocked() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}

// consumeLines parses every complete line in pending, keeping the newest value
func (s *Serial) consumeLines() {
	for {
		i := bytes.IndexByte(s.pending, '\n')
		if i < 0 {
			break
		}
		line := s.pending[:i]
		if v, err := ParseNumber(line); err == nil {
			s.last = v
		}
		s.pending = s.pending[i+1:]
	}
	if len(s.pending) > maxPending {
		s.pending = s.pending[:0]
	}
}

func autoSelectPort() (string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", fmt.Errorf("enumerate ports: %w", err)
	}
	for _, p := range ports {
		if p.IsUSB && preferredVIDs[strings.ToUpper(p.VID)] {
			return p.Name, nil
		}
	}
	return "", ErrNoSerialPort
}
