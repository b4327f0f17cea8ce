package capture

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// fakeDevice counts starts and stops and serves a canned frame once ready.
type fakeDevice struct {
	mu      sync.Mutex
	started bool
	starts  int
	stops   int
	ready   bool
	frame   Frame
}

func (d *fakeDevice) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.started = true
	d.starts++
	return nil
}

func (d *fakeDevice) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.started = false
	d.stops++
	return nil
}

func (d *fakeDevice) Frame(ctx context.Context) (Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started || !d.ready {
		return Frame{}, ErrDeviceNotReady
	}
	return d.frame, nil
}

func readyDevice() *fakeDevice {
	return &fakeDevice{ready: true, frame: Frame{Data: []byte{0xff, 0xd8}, MIME: "image/jpeg"}}
}

func TestPipeline_ArmDisarm(t *testing.T) {
	dev := readyDevice()
	p := NewPipeline(dev, nil)
	ctx := context.Background()

	if err := p.Arm(ctx, "person"); err != nil {
		t.Fatalf("Arm: %v", err)
	}
	if region, armed := p.Armed(); !armed || region != "person" {
		t.Fatalf("Armed() = %q, %v", region, armed)
	}

	// Re-arming the same region must not restart the device.
	if err := p.Arm(ctx, "person"); err != nil {
		t.Fatalf("re-Arm: %v", err)
	}
	if dev.starts != 1 {
		t.Errorf("starts = %d; want 1", dev.starts)
	}

	// Switching regions transfers ownership via stop-then-start.
	if err := p.Arm(ctx, "object"); err != nil {
		t.Fatalf("Arm object: %v", err)
	}
	if dev.stops != 1 || dev.starts != 2 {
		t.Errorf("stops=%d starts=%d; want 1, 2", dev.stops, dev.starts)
	}

	if err := p.Disarm(); err != nil {
		t.Fatalf("Disarm: %v", err)
	}
	if dev.started {
		t.Error("device still started after Disarm")
	}
	if _, armed := p.Armed(); armed {
		t.Error("pipeline still armed after Disarm")
	}

	// Disarming twice is a no-op, not a double stop.
	if err := p.Disarm(); err != nil {
		t.Fatalf("second Disarm: %v", err)
	}
	if dev.stops != 2 {
		t.Errorf("stops = %d; want 2", dev.stops)
	}
}

func TestPipeline_RequestCapture(t *testing.T) {
	dev := readyDevice()
	p := NewPipeline(dev, nil)
	ctx := context.Background()

	_, err := p.RequestCapture(ctx)
	if !errors.Is(err, ErrNotArmed) {
		t.Fatalf("capture while disarmed: err = %v; want ErrNotArmed", err)
	}
	// An unarmed device is one kind of not-ready device; callers checking
	// the broad sentinel must catch it too.
	if !errors.Is(err, ErrDeviceNotReady) {
		t.Fatalf("capture while disarmed: err = %v; want ErrDeviceNotReady kind", err)
	}

	if err := p.Arm(ctx, "person"); err != nil {
		t.Fatalf("Arm: %v", err)
	}

	frame, err := p.RequestCapture(ctx)
	if err != nil {
		t.Fatalf("RequestCapture: %v", err)
	}
	if len(frame.Data) == 0 || frame.MIME != "image/jpeg" {
		t.Errorf("frame = %+v", frame)
	}
}

func TestPipeline_DeviceNotReady(t *testing.T) {
	dev := &fakeDevice{ready: false}
	p := NewPipeline(dev, nil)
	ctx := context.Background()

	if err := p.Arm(ctx, "person"); err != nil {
		t.Fatalf("Arm: %v", err)
	}

	if _, err := p.RequestCapture(ctx); !errors.Is(err, ErrDeviceNotReady) {
		t.Fatalf("err = %v; want ErrDeviceNotReady", err)
	}

	// Failure leaves the device armed so the user can retry manually.
	if _, armed := p.Armed(); !armed {
		t.Error("pipeline disarmed after a not-ready failure")
	}

	dev.mu.Lock()
	dev.ready = true
	dev.mu.Unlock()
	if _, err := p.RequestCapture(ctx); err != nil {
		t.Fatalf("retry after ready: %v", err)
	}
}

func TestPipeline_TriggerGuards(t *testing.T) {
	dev := readyDevice()
	p := NewPipeline(dev, nil)
	ctx := context.Background()

	if err := p.Arm(ctx, "person"); err != nil {
		t.Fatalf("Arm: %v", err)
	}

	// Fresh trigger for the armed region fires.
	if _, fired, err := p.Trigger(ctx, 1, "person"); !fired || err != nil {
		t.Fatalf("Trigger(1, person) fired=%v err=%v", fired, err)
	}

	// Replaying the same sequence does not fire again.
	if _, fired, _ := p.Trigger(ctx, 1, "person"); fired {
		t.Error("stale sequence fired")
	}

	// A trigger for another region is consumed without firing...
	if _, fired, _ := p.Trigger(ctx, 2, "object"); fired {
		t.Error("mismatched-region trigger fired")
	}

	// ...and cannot fire later once that region becomes armed.
	if err := p.Arm(ctx, "object"); err != nil {
		t.Fatalf("Arm object: %v", err)
	}
	if _, fired, _ := p.Trigger(ctx, 2, "object"); fired {
		t.Error("consumed trigger fired after region switch")
	}

	// The next fresh trigger fires in the new region.
	if _, fired, err := p.Trigger(ctx, 3, "object"); !fired || err != nil {
		t.Fatalf("Trigger(3, object) fired=%v err=%v", fired, err)
	}
}
