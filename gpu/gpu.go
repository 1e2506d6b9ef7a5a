//go:build !nogpu

// Package gpu moves an octree onto a GPU through wgpu/hal.
//
// [Uploader] keeps a storage buffer holding the node array and a uniform
// buffer holding the camera block in step with an [svo.Session].
// [ProbePipeline] runs the node_at_pos descent as a compute shader over a
// batch of points and reads the results back, which lets callers check
// that the GPU sees the same tree as the CPU.
//
// Either type can be built from a bare hal.Device and hal.Queue or from a
// gpucontext.DeviceProvider shared with a host application:
//
//	up, err := gpu.NewUploaderFromProvider(provider)
//	if err != nil {
//	    return err
//	}
//	defer up.Close()
//	if err := up.Upload(session); err != nil {
//	    return err
//	}
package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/svo"
)

var (
	// ErrNoDevice is returned when a provider does not expose a HAL
	// device and queue.
	ErrNoDevice = errors.New("gpu: provider does not expose a HAL device")

	// ErrBufferTooLarge is returned when the node array exceeds the
	// device's storage buffer binding limit.
	ErrBufferTooLarge = errors.New("gpu: node buffer exceeds storage binding limit")

	// ErrClosed is returned by operations on a released Uploader or
	// ProbePipeline.
	ErrClosed = errors.New("gpu: use after Close")
)

// NodeBufferSize returns the storage buffer size for n nodes.
func NodeBufferSize(n int) uint64 {
	return uint64(n) * svo.NodeSize
}

// halProvider is implemented by providers that hand out HAL objects
// behind accessors separate from the gpucontext ones.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// halFromProvider extracts the HAL device and queue from provider. The
// gpucontext accessors are tried first.
func halFromProvider(provider gpucontext.DeviceProvider) (hal.Device, hal.Queue, error) {
	if provider == nil {
		return nil, nil, ErrNoDevice
	}
	if device, ok := provider.Device().(hal.Device); ok {
		if queue, ok := provider.Queue().(hal.Queue); ok {
			return device, queue, nil
		}
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, ErrNoDevice
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok {
		return nil, nil, fmt.Errorf("%w: HalDevice is %T", ErrNoDevice, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok {
		return nil, nil, fmt.Errorf("%w: HalQueue is %T", ErrNoDevice, hp.HalQueue())
	}
	return device, queue, nil
}
