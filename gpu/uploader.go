//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/svo"
)

// Uploader owns the node and camera buffers for one session and rewrites
// them on demand. The node buffer grows geometrically so a tree that keeps
// gaining nodes does not reallocate on every frame.
//
// Uploader is not safe for concurrent use.
type Uploader struct {
	device hal.Device
	queue  hal.Queue
	limits gputypes.Limits

	nodeBuf     hal.Buffer
	nodeBufSize uint64
	uniformBuf  hal.Buffer

	closed bool
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader)

// WithLimits sets the device limits the uploader checks buffer sizes
// against. The default is gputypes.DefaultLimits.
func WithLimits(limits gputypes.Limits) UploaderOption {
	return func(u *Uploader) {
		u.limits = limits
	}
}

// NewUploader returns an uploader on device and queue. No buffers are
// created until the first Upload.
func NewUploader(device hal.Device, queue hal.Queue, opts ...UploaderOption) *Uploader {
	u := &Uploader{
		device: device,
		queue:  queue,
		limits: gputypes.DefaultLimits(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// NewUploaderFromProvider returns an uploader on a device shared through
// provider.
func NewUploaderFromProvider(provider gpucontext.DeviceProvider, opts ...UploaderOption) (*Uploader, error) {
	device, queue, err := halFromProvider(provider)
	if err != nil {
		return nil, err
	}
	svo.Logger().Debug("gpu: uploader using shared device", "adapter", provider.AdapterInfo().Name)
	return NewUploader(device, queue, opts...), nil
}

// Upload writes the session's node array and camera block to the GPU and
// marks the session synced. The camera block is written every call; the
// node array only when the session is dirty or the buffer is new.
func (u *Uploader) Upload(s *svo.Session) error {
	if u.closed {
		return ErrClosed
	}
	tree := s.Tree()
	size := NodeBufferSize(tree.Len())
	if size > u.limits.MaxStorageBufferBindingSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrBufferTooLarge, size, u.limits.MaxStorageBufferBindingSize)
	}

	grown, err := u.ensureNodeBuffer(size)
	if err != nil {
		return err
	}
	if err := u.ensureUniformBuffer(); err != nil {
		return err
	}

	if grown || s.Dirty() {
		if err := u.queue.WriteBuffer(u.nodeBuf, 0, tree.Bytes()); err != nil {
			return fmt.Errorf("gpu: write node buffer: %w", err)
		}
		svo.Logger().Debug("gpu: nodes uploaded", "nodes", tree.Len(), "bytes", size)
	}
	uni := s.Uniform()
	if err := u.queue.WriteBuffer(u.uniformBuf, 0, uni.Bytes()); err != nil {
		return fmt.Errorf("gpu: write uniform buffer: %w", err)
	}

	s.MarkSynced()
	return nil
}

// NodeBuffer returns the storage buffer holding the node array and its
// allocated size. The buffer is nil before the first Upload.
func (u *Uploader) NodeBuffer() (hal.Buffer, uint64) {
	return u.nodeBuf, u.nodeBufSize
}

// UniformBuffer returns the camera uniform buffer, nil before the first
// Upload.
func (u *Uploader) UniformBuffer() hal.Buffer {
	return u.uniformBuf
}

// Close releases the buffers. The device and queue are not destroyed.
func (u *Uploader) Close() {
	if u.closed {
		return
	}
	u.closed = true
	if u.nodeBuf != nil {
		u.device.DestroyBuffer(u.nodeBuf)
		u.nodeBuf = nil
	}
	if u.uniformBuf != nil {
		u.device.DestroyBuffer(u.uniformBuf)
		u.uniformBuf = nil
	}
}

// ensureNodeBuffer makes the node buffer hold at least size bytes and
// reports whether a new buffer was created.
func (u *Uploader) ensureNodeBuffer(size uint64) (bool, error) {
	if u.nodeBuf != nil && u.nodeBufSize >= size {
		return false, nil
	}
	capacity := growCapacity(u.nodeBufSize, size)
	if capacity > u.limits.MaxStorageBufferBindingSize {
		capacity = size
	}
	buf, err := u.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "svo_nodes",
		Size:  capacity,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return false, fmt.Errorf("gpu: create node buffer: %w", err)
	}
	if u.nodeBuf != nil {
		u.device.DestroyBuffer(u.nodeBuf)
	}
	svo.Logger().Info("gpu: node buffer allocated", "bytes", capacity, "previous", u.nodeBufSize)
	u.nodeBuf = buf
	u.nodeBufSize = capacity
	return true, nil
}

func (u *Uploader) ensureUniformBuffer() error {
	if u.uniformBuf != nil {
		return nil
	}
	buf, err := u.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "svo_camera",
		Size:  svo.UniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create uniform buffer: %w", err)
	}
	u.uniformBuf = buf
	return nil
}

// growCapacity doubles from the current capacity until need fits. The
// first allocation is sized exactly.
func growCapacity(current, need uint64) uint64 {
	if current == 0 {
		return need
	}
	c := current
	for c < need {
		c *= 2
	}
	return c
}
