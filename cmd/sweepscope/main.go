// Command sweepscope serves a live radar-style visualization of a rotating
// distance sensor. A background reader (serial hardware or an in-process
// simulator) feeds shared sweep state; a 50ms renderer projects it into
// frames streamed to browser clients.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"sync"
	"syscall"

	"github.com/banshee-data/sweepscope/internal/radar"
	"github.com/banshee-data/sweepscope/internal/render"
	"github.com/banshee-data/sweepscope/internal/scope"
	"github.com/banshee-data/sweepscope/internal/serialmux"
	"github.com/banshee-data/sweepscope/internal/sweep"
	"github.com/banshee-data/sweepscope/internal/timeutil"
)

var (
	listen      = flag.String("listen", ":8080", "Listen address")
	simulate    = flag.Bool("simulate", false, "Generate readings in-process instead of reading the serial port")
	port        = flag.String("port", "/dev/ttyUSB0", "Serial port the sensor is attached to (ignored with -simulate)")
	baud        = flag.Int("baud", 115200, "Serial baud rate")
	stepDegrees = flag.Int("step-degrees", 4, "Motor step size in degrees (must divide 360)")
	maxRange    = flag.Float64("max-range", 400, "Maximum sensor range in centimeters")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	state, err := sweep.NewState(*stepDegrees, *maxRange)
	if err != nil {
		log.Fatalf("invalid sweep configuration: %v", err)
	}

	clock := timeutil.RealClock{}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Pick the reader variant. A port that fails to open is fatal to the
	// reader only: the display keeps serving a static buffer.
	var reader radar.Reader
	var admin scope.AdminRouteAttacher
	if *simulate {
		reader = radar.NewSimulatedReader(state, clock)
	} else {
		mux, err := serialmux.OpenMux(*port, serialmux.PortOptions{BaudRate: *baud})
		if err != nil {
			log.Printf("failed to open serial port %s: %v (display will be static)", *port, err)
		} else {
			defer mux.Close()
			reader = radar.NewHardwareReader(mux, state, clock)
			admin = mux

			// run the monitor routine to manage IO on the serial port
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := mux.Monitor(ctx); err != nil && err != context.Canceled {
					log.Printf("failed to monitor serial port: %v", err)
				}
				log.Print("monitor routine terminated")
			}()
		}
	}

	ws := scope.NewWebServer(scope.WebServerConfig{
		Address: *listen,
		State:   state,
		Scene:   render.BuildScene(*maxRange),
		Admin:   admin,
	})

	if reader != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := reader.Run(ctx); err != nil && err != context.Canceled {
				log.Printf("reader terminated: %v", err)
			}
			log.Print("reader routine terminated")
		}()
	}

	// renderer goroutine: snapshots state every frame period and publishes
	// to the web server's fanout
	wg.Add(1)
	go func() {
		defer wg.Done()
		renderer := render.NewRenderer(state, clock)
		if err := renderer.Run(ctx, ws.Publish); err != nil && err != context.Canceled {
			log.Printf("renderer terminated: %v", err)
		}
		log.Print("renderer routine terminated")
	}()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := ws.Start(ctx); err != nil {
			log.Printf("web server error: %v", err)
		}
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
