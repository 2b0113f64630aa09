// Package scan drives a barcode scanner attached to the terminal. The
// decoder hardware is abstracted behind Decoder/Stream so the same session
// lifecycle serves a serial scanner, an HID wedge, or a test double.
package scan

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// ErrNoCode is returned by Stream.Next for a frame with nothing decodable.
// The session keeps reading; it is noise, not a failure.
var ErrNoCode = errors.New("no code in frame")

// ErrNoDevices is reported when the decoder enumerates zero devices.
var ErrNoDevices = errors.New("no scanner devices available")

// Device identifies one attached scanner.
type Device struct {
	ID    string
	Label string
}

// Decoder enumerates and opens scanner devices.
type Decoder interface {
	ListDevices() ([]Device, error)
	Open(deviceID string) (Stream, error)
}

// Stream yields decoded codes. Next blocks until a frame arrives and returns
// ErrNoCode for undecodable frames and io.EOF once the stream is closed.
type Stream interface {
	Next() (string, error)
	Close() error
}

// Haptics is an optional feedback channel (beeper, vibration motor).
type Haptics interface {
	Pulse(d time.Duration)
}

// Session runs the show/decode/hide lifecycle over one Decoder. At most one
// stream is live at a time; SwitchDevice always stops the current stream
// before opening the next.
type Session struct {
	decoder Decoder
	haptics Haptics
	log     *slog.Logger

	OnSuccess func(code string)
	OnError   func(err error)

	mu      sync.Mutex
	stream  Stream
	devices []Device
	current int
	visible bool
}

func NewSession(decoder Decoder, haptics Haptics, log *slog.Logger) *Session {
	return &Session{decoder: decoder, haptics: haptics, log: log, current: -1}
}

// Show enumerates devices, picks the preferred one and starts decoding.
// Calling Show while already visible restarts the stream.
func (s *Session) Show() error {
	devices, err := s.decoder.ListDevices()
	if err == nil && len(devices) == 0 {
		err = ErrNoDevices
	}
	if err != nil {
		if s.OnError != nil {
			s.OnError(err)
		}
		return err
	}

	s.mu.Lock()
	s.stopLocked()
	s.devices = devices
	s.current = preferredDevice(devices)
	s.visible = true
	err = s.startLocked()
	s.mu.Unlock()
	return err
}

// SwitchDevice advances to the next enumerated device, wrapping around.
func (s *Session) SwitchDevice() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.visible || len(s.devices) < 2 {
		return nil
	}
	s.stopLocked()
	s.current = (s.current + 1) % len(s.devices)
	return s.startLocked()
}

// Hide stops decoding and releases the device.
func (s *Session) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = false
	s.stopLocked()
}

// CanSwitch reports whether more than one device is available.
func (s *Session) CanSwitch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.devices) > 1
}

func (s *Session) stopLocked() {
	if s.stream != nil {
		s.stream.Close()
		s.stream = nil
	}
}

func (s *Session) startLocked() error {
	stream, err := s.decoder.Open(s.devices[s.current].ID)
	if err != nil {
		s.visible = false
		if s.OnError != nil {
			s.OnError(err)
		}
		return err
	}
	s.stream = stream
	go s.readLoop(stream)
	return nil
}

// readLoop drains one stream. The stream-identity check under the mutex
// guarantees at most one success per stream even if a stale loop is still
// unwinding after a switch.
func (s *Session) readLoop(stream Stream) {
	for {
		code, err := stream.Next()
		if errors.Is(err, ErrNoCode) {
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			s.mu.Lock()
			live := s.stream == stream
			s.mu.Unlock()
			if !live {
				return
			}
			// Decode failures are surfaced but never stop a live stream.
			if s.OnError != nil {
				s.OnError(err)
			}
			continue
		}

		s.mu.Lock()
		if s.stream != stream {
			s.mu.Unlock()
			return
		}
		s.visible = false
		s.stopLocked()
		s.mu.Unlock()

		if s.haptics != nil {
			s.haptics.Pulse(200 * time.Millisecond)
		}
		if s.log != nil {
			s.log.Debug("barcode decoded", "code", code)
		}
		if s.OnSuccess != nil {
			s.OnSuccess(code)
		}
		return
	}
}

// preferredDevice ranks "environment" labels above rear-facing ones and
// falls back to the last-listed device, the convention being that the
// scanner pointed at the counter lists last.
func preferredDevice(devices []Device) int {
	for i, d := range devices {
		if strings.Contains(strings.ToLower(d.Label), "environment") {
			return i
		}
	}
	for i, d := range devices {
		label := strings.ToLower(d.Label)
		if strings.Contains(label, "back") || strings.Contains(label, "traseira") {
			return i
		}
	}
	return len(devices) - 1
}
