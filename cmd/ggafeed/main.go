package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"ggafeed/internal/config"
	"ggafeed/internal/gga"
	"ggafeed/internal/ingest"
	"ggafeed/internal/pps"
	"ggafeed/internal/ring"
	"ggafeed/internal/udp"
	"ggafeed/internal/verify"
	"ggafeed/internal/wire"
)

type feedStats struct {
	sentences atomic.Uint64
	gga       atomic.Uint64
	fixes     atomic.Uint64
	noFix     atomic.Uint64
}

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./dev.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	broadcaster, err := udp.NewBroadcaster(cfg.Feed.Dest)
	if err != nil {
		log.Fatalf("udp broadcaster init failed: %v", err)
	}
	defer broadcaster.Close()

	var monitor *pps.Monitor
	if cfg.PPS.Enable {
		monitor, err = pps.Open(cfg.PPS.Pin)
		if err != nil {
			log.Printf("pps disabled: %v", err)
		} else {
			defer monitor.Close()
			log.Printf("pps enabled pin=%d", cfg.PPS.Pin)
		}
	}

	// Capacity was validated by config.Load.
	buf := ring.MustNew(cfg.Ring.Capacity)

	var stats feedStats
	var rec gga.Record
	stream := ingest.NewStream(buf, func(begin int, remaining uint16) {
		stats.sentences.Add(1)
		if !gga.IsGGA(buf, begin) {
			return
		}
		stats.gga.Add(1)
		if !gga.Extract(buf, begin, &rec) {
			stats.noFix.Add(1)
			return
		}
		stats.fixes.Add(1)

		if cfg.Feed.Verify {
			length := gga.SentenceLength(buf, remaining, begin)
			if verr := verify.Record(buf.CopyOut(begin, length), &rec); verr != nil {
				log.Printf("verify mismatch begin=%d len=%d: %v", begin, length, verr)
			}
		}

		if serr := broadcaster.Send(wire.PositionFrame(&rec)); serr != nil {
			log.Printf("udp send failed: %v", serr)
		}
	})

	log.Printf("ggafeed starting dest=%s ring=%d", cfg.Feed.Dest, buf.Cap())

	go func() {
		if err := runInput(ctx, cfg, stream); err != nil && ctx.Err() == nil {
			log.Printf("input stopped: %v", err)
		}
		cancel()
	}()

	go func() {
		t := time.NewTicker(10 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				logStatus(&stats, monitor)
			}
		}
	}()

	<-ctx.Done()
	log.Printf("ggafeed stopping sentences=%d gga=%d fixes=%d", stats.sentences.Load(), stats.gga.Load(), stats.fixes.Load())
}

// runInput feeds the stream from the replay file or the serial device,
// re-opening the replay file when looping is configured.
func runInput(ctx context.Context, cfg config.Config, stream *ingest.Stream) error {
	if !cfg.Replay.Enable {
		f, err := ingest.OpenSerial(cfg.Serial.Device, cfg.Serial.Baud)
		if err != nil {
			return fmt.Errorf("open serial device=%s baud=%d: %w", cfg.Serial.Device, cfg.Serial.Baud, err)
		}
		defer f.Close()
		log.Printf("serial enabled device=%s baud=%d", cfg.Serial.Device, cfg.Serial.Baud)
		return ingest.Run(ctx, f, stream)
	}

	log.Printf("replay enabled path=%s loop=%v", cfg.Replay.Path, cfg.Replay.Loop)
	for {
		f, err := os.Open(cfg.Replay.Path)
		if err != nil {
			return fmt.Errorf("open replay file: %w", err)
		}
		err = ingest.Run(ctx, f, stream)
		_ = f.Close()
		if err != nil {
			return err
		}
		if !cfg.Replay.Loop {
			log.Printf("replay finished path=%s", cfg.Replay.Path)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

func logStatus(stats *feedStats, monitor *pps.Monitor) {
	msg := fmt.Sprintf("feed sentences=%d gga=%d fixes=%d nofix=%d",
		stats.sentences.Load(), stats.gga.Load(), stats.fixes.Load(), stats.noFix.Load())
	if monitor != nil {
		if last, ok := monitor.LastPulse(); ok {
			msg += fmt.Sprintf(" pps_pulses=%d pps_age=%s", monitor.Pulses(), time.Since(last).Round(time.Millisecond))
		}
	}
	log.Print(msg)
}
