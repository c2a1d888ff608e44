//go:build !linux

package ingest

import (
	"fmt"
	"os"
)

func OpenSerial(path string, baud int) (*os.File, error) {
	return nil, fmt.Errorf("ingest: serial not supported on this platform")
}
