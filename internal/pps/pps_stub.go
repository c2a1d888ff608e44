//go:build !linux

package pps

import "fmt"

func Open(pin int) (*Monitor, error) {
	return nil, fmt.Errorf("pps: gpio unsupported on this platform")
}
