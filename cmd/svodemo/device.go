package main

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/svo/internal/config"
)

// device is an opened HAL device with the instance that owns it.
type device struct {
	Device hal.Device
	Queue  hal.Queue

	// Executes reports whether submitted shaders actually run.
	Executes bool

	instance hal.Instance
}

func openDevice(backend string) (*device, error) {
	if backend != config.BackendNoop {
		return nil, fmt.Errorf("unsupported gpu backend %q", backend)
	}
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("no %s adapters", backend)
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open adapter: %w", err)
	}
	return &device{Device: openDev.Device, Queue: openDev.Queue, instance: instance}, nil
}

func (d *device) Close() {
	d.Device.Destroy()
	d.instance.Destroy()
}
