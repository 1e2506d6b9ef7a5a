//go:build !nogpu

package gpu

import (
	"bytes"
	"errors"
	"testing"
	"unsafe"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/svo"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// readBuffer maps buf and copies out its first n bytes.
func readBuffer(t *testing.T, device hal.Device, buf hal.Buffer, n uint64) []byte {
	t.Helper()
	m, err := device.MapBuffer(buf, 0, n)
	if err != nil {
		t.Fatalf("MapBuffer: %v", err)
	}
	defer func() { _ = device.UnmapBuffer(buf) }()
	return bytes.Clone(unsafe.Slice((*byte)(m.Ptr), n))
}

type fakeProvider struct {
	device gpucontext.Device
	queue  gpucontext.Queue
}

func (p *fakeProvider) Device() gpucontext.Device             { return p.device }
func (p *fakeProvider) Queue() gpucontext.Queue               { return p.queue }
func (p *fakeProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatUndefined }
func (p *fakeProvider) Adapter() gpucontext.Adapter           { return nil }
func (p *fakeProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{Name: "noop"} }

// halOnlyProvider hides the HAL objects behind separate accessors.
type halOnlyProvider struct {
	fakeProvider
	halDevice any
	halQueue  any
}

func (p *halOnlyProvider) HalDevice() any { return p.halDevice }
func (p *halOnlyProvider) HalQueue() any  { return p.halQueue }

func TestNodeBufferSize(t *testing.T) {
	tests := []struct {
		n    int
		want uint64
	}{
		{0, 0},
		{1, svo.NodeSize},
		{129, 129 * svo.NodeSize},
	}
	for _, tt := range tests {
		if got := NodeBufferSize(tt.n); got != tt.want {
			t.Errorf("NodeBufferSize(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestHalFromProvider(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
		wantErr  bool
	}{
		{"nil provider", nil, true},
		{"direct hal objects", &fakeProvider{device: device, queue: queue}, false},
		{"hal accessors", &halOnlyProvider{halDevice: device, halQueue: queue}, false},
		{"no hal objects", &fakeProvider{device: "device", queue: "queue"}, true},
		{"wrong hal device type", &halOnlyProvider{halDevice: 42, halQueue: queue}, true},
		{"wrong hal queue type", &halOnlyProvider{halDevice: device, halQueue: 42}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, q, err := halFromProvider(tt.provider)
			if tt.wantErr {
				if !errors.Is(err, ErrNoDevice) {
					t.Fatalf("error = %v, want ErrNoDevice", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d != device || q != queue {
				t.Error("provider returned different device or queue")
			}
		})
	}
}
