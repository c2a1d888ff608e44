//go:build linux

package pps

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// Open requests the given BCM GPIO as a rising-edge input via the Linux GPIO
// character device and starts counting pulses.
func Open(pin int) (*Monitor, error) {
	if pin <= 0 {
		return nil, fmt.Errorf("pps: invalid gpio pin %d", pin)
	}

	// On Pi, line names are commonly "GPIO18", etc.
	lineName := fmt.Sprintf("GPIO%d", pin)

	chipCandidates := []string{"/dev/gpiochip0", "/dev/gpiochip4"}
	entries, _ := os.ReadDir("/dev")
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "gpiochip") {
			chipCandidates = append(chipCandidates, filepath.Join("/dev", name))
		}
	}

	m := &Monitor{}
	for _, chipPath := range chipCandidates {
		chip, err := gpiocdev.NewChip(chipPath)
		if err != nil {
			continue
		}
		offset, err := chip.FindLine(lineName)
		if err != nil {
			_ = chip.Close()
			continue
		}
		line, err := chip.RequestLine(offset,
			gpiocdev.AsInput,
			gpiocdev.WithRisingEdge,
			gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) {
				m.markPulse(time.Now())
			}),
			gpiocdev.WithConsumer("ggafeed-pps"))
		if err != nil {
			_ = chip.Close()
			continue
		}
		m.closer = &gpiodLine{chip: chip, line: line}
		return m, nil
	}

	return nil, fmt.Errorf("pps: gpio line %q not found (or busy)", lineName)
}

type gpiodLine struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

func (g *gpiodLine) Close() error {
	err := g.line.Close()
	_ = g.chip.Close()
	return err
}
