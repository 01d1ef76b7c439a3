package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"bulli/host/monitor"
	"bulli/host/serial"
)

var (
	device   = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud     = flag.Int("baud", serial.DefaultBaud, "Baud rate (ignored for USB CDC)")
	verbose  = flag.Bool("verbose", false, "Log every status report")
	interval = flag.Duration("interval", 5*time.Second, "Summary print interval (0 disables)")
)

func main() {
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	log.WithField("device", cfg.Device).Info("Connecting to vehicle")
	port, err := serial.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer port.Close()

	if err := port.Flush(); err != nil {
		log.WithError(err).Warn("Could not flush serial input")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := monitor.New(port, log.StandardLogger())

	if *interval > 0 {
		go func() {
			ticker := time.NewTicker(*interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					fmt.Println(m.Snapshot())
				}
			}
		}()
	}

	err = m.Run(ctx)
	fmt.Println(m.Snapshot())
	if err != nil && ctx.Err() == nil {
		log.WithError(err).Error("Telemetry stream ended")
		os.Exit(1)
	}
}
