package device

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/itohio/gotouch/pkg/touch"
)

const (
	// DefaultBaudRate matches the firmware UART configuration.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the samples channel buffer.
	DefaultBufferSize = 100
)

// RawSample is one sweep over all sensors as reported by the board.
type RawSample struct {
	Timestamp time.Time
	Filter    Filter         // Filter the firmware applied
	Values    []touch.Sample // One value per sensor, in board order
}

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial represents a connection to the sensor board.
type Serial struct {
	port     string
	baudRate int
	bufSize  int

	conn      serial.Port
	samples   chan RawSample
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// New creates a new Serial instance with the specified port, baud rate, and buffer size.
func New(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:     port,
		baudRate: baudRate,
		bufSize:  bufSize,
		samples:  make(chan RawSample, bufSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect connects to the serial port and starts reading samples.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = port
	d.connected = true

	go d.readSamples(port)

	return nil
}

// Close closes the connection and stops reading samples.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.cancel()

	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			log.Printf("Error closing serial port: %v", err)
		}
		d.conn = nil
	}

	d.connected = false

	close(d.samples)

	return nil
}

// Samples returns the channel for reading samples.
func (d *Serial) Samples() <-chan RawSample {
	return d.samples
}

// SetFilter sends the filter command to the board. The board applies it from
// the next sweep on.
func (d *Serial) SetFilter(f Filter) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.connected {
		return fmt.Errorf("not connected")
	}

	if !f.Median && f.Samples == 0 {
		return fmt.Errorf("average filter needs at least one sample")
	}

	if _, err := d.conn.Write([]byte(f.String() + "\n")); err != nil {
		return fmt.Errorf("failed to send filter command: %w", err)
	}

	return nil
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// readSamples reads lines from r and forwards parsed samples until the
// connection is closed.
func (d *Serial) readSamples(r io.Reader) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in readSamples: %v", r)
		}
	}()

	scanner := bufio.NewScanner(r)
	for {
		select {
		case <-d.ctx.Done():
			return
		default:
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					log.Printf("Error reading from serial port: %v", err)
				}
				return
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			sample, err := parseLine(line)
			if err != nil {
				log.Printf("Failed to parse line '%s': %v", line, err)
				continue
			}

			// Hold the read lock so Close cannot close the channel mid-send
			d.mu.RLock()
			if !d.connected {
				d.mu.RUnlock()
				return
			}
			select {
			case d.samples <- sample:
			default:
				log.Printf("Samples channel full, dropping sample")
			}
			d.mu.RUnlock()
		}
	}
}

// parseLine parses a line from the board into a RawSample.
// Format: unix_micros,filter,v0,v1,...
// Example: 1234567890123,a4,23,61,255
func parseLine(line string) (RawSample, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 3 {
		return RawSample{}, fmt.Errorf("invalid line format: expected at least 3 comma-separated values, got %d", len(parts))
	}

	timestampMicros, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return RawSample{}, fmt.Errorf("invalid timestamp: %w", err)
	}

	filter, err := ParseFilter(parts[1])
	if err != nil {
		return RawSample{}, err
	}

	values := make([]touch.Sample, 0, len(parts)-2)
	for i, p := range parts[2:] {
		v, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return RawSample{}, fmt.Errorf("invalid value for sensor %d: %w", i, err)
		}
		values = append(values, touch.Sample(v))
	}

	return RawSample{
		Timestamp: time.UnixMicro(timestampMicros),
		Filter:    filter,
		Values:    values,
	}, nil
}
