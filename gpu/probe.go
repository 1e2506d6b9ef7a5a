//go:build !nogpu

package gpu

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/svo"
)

//go:embed shaders/probe.wgsl
var probeShaderSource string

const (
	probeWorkgroupSize = 64
	probeParamsSize    = 16
	probePointSize     = 16
	probeResultSize    = 16
)

// ErrNotUploaded is returned by ProbePipeline.Run before the uploader has
// written a node buffer.
var ErrNotUploaded = errors.New("gpu: node buffer not uploaded")

// ProbeResult is the node the GPU descent stopped at for one point.
type ProbeResult struct {
	Index  uint32
	Parent uint32
	Type   svo.NodeType
	Depth  uint32
}

// ProbeShaderSource returns the WGSL source of the probe kernel.
func ProbeShaderSource() string {
	return probeShaderSource
}

// CompileProbe compiles the probe kernel to SPIR-V.
func CompileProbe() ([]byte, error) {
	spirv, err := naga.Compile(probeShaderSource)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile probe shader: %w", err)
	}
	return spirv, nil
}

// ProbePipeline runs node_at_pos on the GPU for batches of points against
// the node buffer of an Uploader.
type ProbePipeline struct {
	device hal.Device
	queue  hal.Queue
	limits gputypes.Limits

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
}

// NewProbePipeline compiles the probe kernel on device and builds its
// pipeline.
func NewProbePipeline(device hal.Device, queue hal.Queue) (*ProbePipeline, error) {
	p := &ProbePipeline{device: device, queue: queue, limits: gputypes.DefaultLimits()}
	if err := p.createPipeline(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// NewProbePipelineFromProvider is like NewProbePipeline on a device
// shared through provider.
func NewProbePipelineFromProvider(provider gpucontext.DeviceProvider) (*ProbePipeline, error) {
	device, queue, err := halFromProvider(provider)
	if err != nil {
		return nil, err
	}
	return NewProbePipeline(device, queue)
}

func (p *ProbePipeline) createPipeline() error {
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "svo_probe_shader",
		Source: hal.ShaderSource{WGSL: probeShaderSource},
	})
	if err != nil {
		return fmt.Errorf("gpu: create probe shader: %w", err)
	}
	p.shader = shader

	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "svo_probe_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 3, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create probe bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "svo_probe_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("gpu: create probe pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	pipeline, err := p.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "svo_probe_pipeline",
		Layout:  p.pipeLayout,
		Compute: hal.ComputeState{Module: p.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("gpu: create probe pipeline: %w", err)
	}
	p.pipeline = pipeline
	return nil
}

// Run descends the uploaded tree for every point and returns one result
// per point, in order.
func (p *ProbePipeline) Run(up *Uploader, points []svo.Vec4) ([]ProbeResult, error) {
	if p.pipeline == nil {
		return nil, ErrClosed
	}
	if up == nil {
		return nil, ErrNotUploaded
	}
	nodeBuf, nodeSize := up.NodeBuffer()
	if nodeBuf == nil {
		return nil, ErrNotUploaded
	}
	if len(points) == 0 {
		return nil, nil
	}
	groups := (uint32(len(points)) + probeWorkgroupSize - 1) / probeWorkgroupSize //nolint:gosec // bounded by the limit check below
	if groups > p.limits.MaxComputeWorkgroupsPerDimension {
		return nil, fmt.Errorf("gpu: %d points need %d workgroups, limit %d",
			len(points), groups, p.limits.MaxComputeWorkgroupsPerDimension)
	}

	pointBytes := packPoints(points)
	resultSize := uint64(len(points)) * probeResultSize

	var bufs []hal.Buffer
	defer func() {
		for _, b := range bufs {
			p.device.DestroyBuffer(b)
		}
	}()
	create := func(label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
		b, err := p.device.CreateBuffer(&hal.BufferDescriptor{Label: label, Size: size, Usage: usage})
		if err != nil {
			return nil, fmt.Errorf("gpu: create %s: %w", label, err)
		}
		bufs = append(bufs, b)
		return b, nil
	}

	paramsBuf, err := create("svo_probe_params", probeParamsSize, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	pointsBuf, err := create("svo_probe_points", uint64(len(pointBytes)), gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	resultsBuf, err := create("svo_probe_results", resultSize, gputypes.BufferUsageStorage|gputypes.BufferUsageCopySrc)
	if err != nil {
		return nil, err
	}
	stagingBuf, err := create("svo_probe_staging", resultSize, gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}

	if err := p.queue.WriteBuffer(paramsBuf, 0, makeProbeParams(uint32(len(points)))); err != nil { //nolint:gosec // checked against workgroup limit
		return nil, fmt.Errorf("gpu: write probe params: %w", err)
	}
	if err := p.queue.WriteBuffer(pointsBuf, 0, pointBytes); err != nil {
		return nil, fmt.Errorf("gpu: write probe points: %w", err)
	}

	bg, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "svo_probe_bind_group",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: paramsBuf.NativeHandle(), Offset: 0, Size: probeParamsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: nodeBuf.NativeHandle(), Offset: 0, Size: nodeSize}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: pointsBuf.NativeHandle(), Offset: 0, Size: uint64(len(pointBytes))}},
			{Binding: 3, Resource: gputypes.BufferBinding{Buffer: resultsBuf.NativeHandle(), Offset: 0, Size: resultSize}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create probe bind group: %w", err)
	}
	defer p.device.DestroyBindGroup(bg)

	if err := p.dispatch(bg, groups, resultsBuf, stagingBuf, resultSize); err != nil {
		return nil, err
	}

	raw, err := p.readback(stagingBuf, resultSize)
	if err != nil {
		return nil, err
	}
	svo.Logger().Debug("gpu: probe finished", "points", len(points), "workgroups", groups)
	return unpackResults(raw), nil
}

func (p *ProbePipeline) dispatch(bg hal.BindGroup, groups uint32, resultsBuf, stagingBuf hal.Buffer, size uint64) error {
	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "svo_probe_encoder"})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("svo_probe"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "svo_probe_pass"})
	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch(groups, 1, 1)
	pass.End()

	encoder.CopyBufferToBuffer(resultsBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer p.device.FreeCommandBuffer(cmdBuf)

	if _, err := p.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	if err := p.device.WaitIdle(); err != nil {
		return fmt.Errorf("gpu: wait idle: %w", err)
	}
	return nil
}

func (p *ProbePipeline) readback(staging hal.Buffer, size uint64) ([]byte, error) {
	m, err := p.device.MapBuffer(staging, 0, size)
	if err != nil {
		return nil, fmt.Errorf("gpu: map staging buffer: %w", err)
	}
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(m.Ptr), size))
	if err := p.device.UnmapBuffer(staging); err != nil {
		return nil, fmt.Errorf("gpu: unmap staging buffer: %w", err)
	}
	return out, nil
}

// Close releases the pipeline objects.
func (p *ProbePipeline) Close() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyComputePipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

func makeProbeParams(count uint32) []byte {
	buf := make([]byte, probeParamsSize)
	binary.LittleEndian.PutUint32(buf[0:], count)
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(svo.RootSpan))
	binary.LittleEndian.PutUint32(buf[8:], svo.LeafDepth)
	return buf
}

func packPoints(points []svo.Vec4) []byte {
	buf := make([]byte, len(points)*probePointSize)
	for i, pt := range points {
		b := buf[i*probePointSize:]
		binary.LittleEndian.PutUint32(b[0:], math.Float32bits(pt.X))
		binary.LittleEndian.PutUint32(b[4:], math.Float32bits(pt.Y))
		binary.LittleEndian.PutUint32(b[8:], math.Float32bits(pt.Z))
		binary.LittleEndian.PutUint32(b[12:], math.Float32bits(pt.W))
	}
	return buf
}

func unpackResults(raw []byte) []ProbeResult {
	out := make([]ProbeResult, len(raw)/probeResultSize)
	for i := range out {
		b := raw[i*probeResultSize:]
		out[i] = ProbeResult{
			Index:  binary.LittleEndian.Uint32(b[0:]),
			Parent: binary.LittleEndian.Uint32(b[4:]),
			Type:   svo.NodeType(binary.LittleEndian.Uint32(b[8:])),
			Depth:  binary.LittleEndian.Uint32(b[12:]),
		}
	}
	return out
}

// ResultFromCursor converts a CPU query result into the form the probe
// kernel produces, for comparison.
func ResultFromCursor(tree *svo.Octree, c svo.Cursor) ProbeResult {
	return ProbeResult{
		Index:  c.Index,
		Parent: c.Parent,
		Type:   tree.Node(c.Index).Type,
		Depth:  uint32(c.Depth), //nolint:gosec // depth < MaxRecursion
	}
}
