package scan

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// LineDecoder reads newline-terminated codes from character devices, the
// framing used by serial scanners and HID wedges in line mode. Blank lines
// count as empty frames.
type LineDecoder struct {
	Devices []Device

	// OpenFunc opens the device path; defaults to os.Open.
	OpenFunc func(path string) (io.ReadCloser, error)
}

func (d *LineDecoder) ListDevices() ([]Device, error) {
	return d.Devices, nil
}

func (d *LineDecoder) Open(deviceID string) (Stream, error) {
	open := d.OpenFunc
	if open == nil {
		open = func(path string) (io.ReadCloser, error) { return os.Open(path) }
	}
	rc, err := open(deviceID)
	if err != nil {
		return nil, err
	}
	return &lineStream{rc: rc, scanner: bufio.NewScanner(rc)}, nil
}

type lineStream struct {
	rc      io.ReadCloser
	scanner *bufio.Scanner
}

func (s *lineStream) Next() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	code := strings.TrimSpace(s.scanner.Text())
	if code == "" {
		return "", ErrNoCode
	}
	return code, nil
}

func (s *lineStream) Close() error {
	return s.rc.Close()
}
