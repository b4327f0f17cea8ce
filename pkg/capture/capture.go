// Package capture acquires still frames from a camera-like input device on
// demand.
//
// The pipeline does not own frame acquisition timing; it reacts to capture
// triggers issued by the session orchestrator. A trigger carries a monotonic
// sequence number and the interaction region it was issued for; the pipeline
// grabs a frame only when the device is armed for that same region, so a
// stale trigger from a prior region can never fire into a new one.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Sentinel errors.
var (
	// ErrDeviceNotReady is returned when the device has not yet produced a
	// usable frame (e.g. a zero-dimension video surface).
	ErrDeviceNotReady = errors.New("capture: device not ready")

	// ErrNotArmed is returned when a capture is requested while no device
	// is armed. It is a kind of ErrDeviceNotReady: callers that only check
	// for a not-ready device catch the unarmed case too.
	ErrNotArmed = fmt.Errorf("capture: not armed: %w", ErrDeviceNotReady)
)

// Region identifies the interaction region a device is armed for. The
// orchestrator uses one region per camera-bearing mode.
type Region string

// Frame is a single still image captured from the device.
type Frame struct {
	Data []byte
	MIME string
}

// Device is an opaque camera-like input device.
//
// Start acquires the underlying media handle; Stop releases it. Frame yields
// the most recent still image, or ErrDeviceNotReady if the device has not
// produced a usable frame yet. Implementations must tolerate Stop being
// called while a Frame call is in flight.
type Device interface {
	Start(ctx context.Context) error
	Frame(ctx context.Context) (Frame, error)
	Stop() error
}

// Pipeline arms a device for one region at a time and serves capture
// requests against it.
type Pipeline struct {
	mu      sync.Mutex
	device  Device
	armed   bool
	region  Region
	lastSeq uint64
	logger  *slog.Logger
}

// NewPipeline creates a pipeline over the given device.
func NewPipeline(device Device, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{device: device, logger: logger}
}

// Arm starts the device for the given region. If the device is already armed
// for another region it is stopped first; ownership transfers only through
// this stop-then-start sequence.
func (p *Pipeline) Arm(ctx context.Context, region Region) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.armed {
		if p.region == region {
			return nil
		}
		if err := p.device.Stop(); err != nil {
			p.logger.Warn("stop device on region switch", "err", err)
		}
		p.armed = false
	}

	if err := p.device.Start(ctx); err != nil {
		return fmt.Errorf("capture: start device: %w", err)
	}
	p.armed = true
	p.region = region
	return nil
}

// Disarm releases the device handle unconditionally. It must be called
// whenever the owning region becomes inactive, whether or not a capture is
// in flight.
func (p *Pipeline) Disarm() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.armed {
		return nil
	}
	p.armed = false
	p.region = ""
	if err := p.device.Stop(); err != nil {
		return fmt.Errorf("capture: stop device: %w", err)
	}
	return nil
}

// Armed reports the region the device is currently armed for.
func (p *Pipeline) Armed() (Region, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.region, p.armed
}

// Trigger observes a capture trigger. It grabs exactly one frame when the
// sequence number is fresh and the trigger's region matches the armed
// region. A stale or mismatched trigger is consumed without firing, so it
// cannot fire later under a different region either.
//
// The bool result reports whether a capture was attempted.
func (p *Pipeline) Trigger(ctx context.Context, seq uint64, region Region) (Frame, bool, error) {
	p.mu.Lock()
	if seq <= p.lastSeq {
		p.mu.Unlock()
		return Frame{}, false, nil
	}
	p.lastSeq = seq
	if !p.armed || p.region != region {
		p.mu.Unlock()
		p.logger.Debug("capture trigger ignored", "seq", seq, "region", string(region))
		return Frame{}, false, nil
	}
	device := p.device
	p.mu.Unlock()

	frame, err := p.grab(ctx, device)
	return frame, true, err
}

// RequestCapture grabs one frame from the armed device. It fails with
// ErrNotArmed when no device is armed and ErrDeviceNotReady when the device
// has no usable frame; in both cases the device stays in its current state
// so the user can retry manually. The pipeline never retries on its own.
func (p *Pipeline) RequestCapture(ctx context.Context) (Frame, error) {
	p.mu.Lock()
	if !p.armed {
		p.mu.Unlock()
		return Frame{}, ErrNotArmed
	}
	device := p.device
	p.mu.Unlock()

	return p.grab(ctx, device)
}

func (p *Pipeline) grab(ctx context.Context, device Device) (Frame, error) {
	frame, err := device.Frame(ctx)
	if err != nil {
		if errors.Is(err, ErrDeviceNotReady) {
			return Frame{}, err
		}
		return Frame{}, fmt.Errorf("capture: grab frame: %w", err)
	}
	if frame.MIME == "" {
		frame.MIME = "image/jpeg"
	}
	return frame, nil
}
