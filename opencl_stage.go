//go:build opencl

package main

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/jgillich/go-opencl/cl"

	"feedbackfx/frame"
	"feedbackfx/softfx"
)

// openCLStage runs the feedback recurrences as OpenCL kernels over host
// frames. Each step uploads the source coefficient layer, runs one kernel
// and reads the result layers back.
type openCLStage struct {
	variant    string
	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	kernel     *cl.Kernel
	inBuf      *cl.MemObject
	outBuf     *cl.MemObject
	colorBuf   *cl.MemObject
	pixels     int
	deviceName string
}

const feedbackKernelSource = `__kernel void inc_color(
    const int size,
    const float dt,
    const float rate_r,
    const float rate_g,
    const float rate_b,
    __global const float* src,
    __global float* dst)
{
    int idx = get_global_id(0);
    if (idx >= size) {
        return;
    }
    int base = idx * 4;
    float r = src[base] + dt * rate_r;
    float g = src[base + 1] + dt * rate_g;
    float b = src[base + 2] + dt * rate_b;
    dst[base] = r - floor(r);
    dst[base + 1] = g - floor(g);
    dst[base + 2] = b - floor(b);
    dst[base + 3] = 1.0f;
}

float flicker(float x, float tick)
{
    float n = sin(x * 12.9898f + tick * 78.233f) * 43758.5453f;
    return n - floor(n);
}

__kernel void fire_step(
    const int width,
    const int height,
    const float dt,
    const float tick,
    const float diffusion,
    const float force,
    const float cooling,
    const float dissipation_min,
    const int source_top,
    const float source,
    const float luminosity_r,
    const float luminosity_g,
    const float luminosity_b,
    const float contrast_r,
    const float contrast_g,
    const float contrast_b,
    const float frequency_r,
    const float frequency_g,
    const float frequency_b,
    const float phase_r,
    const float phase_g,
    const float phase_b,
    const float transparent_min,
    const float transparent_max,
    __global const float* heat_in,
    __global float* heat_out,
    __global float* color_out)
{
    int idx = get_global_id(0);
    if (idx >= width * height) {
        return;
    }
    int x = idx % width;
    int y = idx / width;
    int up = max(y - 1, 0);
    int down = min(y + 1, height - 1);
    int left = max(x - 1, 0);
    int right = min(x + 1, width - 1);
    float c = heat_in[idx * 4];
    float below = heat_in[(down * width + x) * 4];
    float lap = heat_in[(y * width + left) * 4] + heat_in[(y * width + right) * 4] + heat_in[(up * width + x) * 4] + below - 4.0f * c;
    float loss = c > 0.0f ? fmax(cooling * c, dissipation_min) : 0.0f;
    float next = c + dt * (diffusion * lap + force * (below - c) - loss);
    if (y >= source_top) {
        next += dt * source * (flicker((float)x, tick) - c);
    }
    next = clamp(next, 0.0f, 1.0f);

    int base = idx * 4;
    heat_out[base] = next;
    heat_out[base + 1] = 0.0f;
    heat_out[base + 2] = 0.0f;
    heat_out[base + 3] = 1.0f;

    float3 luminosity = (float3)(luminosity_r, luminosity_g, luminosity_b);
    float3 contrast = (float3)(contrast_r, contrast_g, contrast_b);
    float3 frequency = (float3)(frequency_r, frequency_g, frequency_b);
    float3 phase = (float3)(phase_r, phase_g, phase_b);
    float3 rgb = clamp(luminosity + contrast * cos(6.28318531f * (frequency * next + phase)), 0.0f, 1.0f);
    float alpha = 0.0f;
    if (transparent_max > transparent_min) {
        alpha = smoothstep(transparent_min, transparent_max, next);
    } else if (next >= transparent_max) {
        alpha = 1.0f;
    }
    color_out[base] = rgb.x;
    color_out[base + 1] = rgb.y;
    color_out[base + 2] = rgb.z;
    color_out[base + 3] = alpha;
}`

var kernelNames = map[string]string{
	"inc-color": "inc_color",
	"fire":      "fire_step",
}

func newOpenCLStage(variant string) (*openCLStage, error) {
	kernelName, ok := kernelNames[variant]
	if !ok {
		return nil, fmt.Errorf("no OpenCL kernel for variant %q", variant)
	}
	device, err := pickOpenCLDevice()
	if err != nil {
		return nil, err
	}
	s := &openCLStage{variant: variant, deviceName: device.Name()}

	if s.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	if s.queue, err = s.context.CreateCommandQueue(device, 0); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if s.program, err = s.context.CreateProgramWithSource([]string{feedbackKernelSource}); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := s.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		s.Close()
		var buildErr cl.BuildError
		if errors.As(err, &buildErr) {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	if s.kernel, err = s.program.CreateKernel(kernelName); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL kernel %s: %w", kernelName, err)
	}
	return s, nil
}

// pickOpenCLDevice prefers the first GPU of any platform and falls back to
// a CPU device.
func pickOpenCLDevice() (*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	for _, kind := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(kind)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				return devices[0], nil
			}
		}
	}
	return nil, errors.New("no suitable OpenCL devices found")
}

// ensureBuffers sizes the device buffers for a frame of the given pixel
// count. Buffers survive across steps until the frame size changes.
func (s *openCLStage) ensureBuffers(pixels int) error {
	if s.pixels == pixels && s.inBuf != nil {
		return nil
	}
	s.releaseBuffers()
	byteSize := pixels * 4 * int(unsafe.Sizeof(float32(0)))
	var err error
	if s.inBuf, err = s.context.CreateEmptyBuffer(cl.MemReadOnly, byteSize); err != nil {
		return fmt.Errorf("allocating source buffer: %w", err)
	}
	if s.outBuf, err = s.context.CreateEmptyBuffer(cl.MemWriteOnly, byteSize); err != nil {
		s.releaseBuffers()
		return fmt.Errorf("allocating result buffer: %w", err)
	}
	if s.variant == "fire" {
		if s.colorBuf, err = s.context.CreateEmptyBuffer(cl.MemWriteOnly, byteSize); err != nil {
			s.releaseBuffers()
			return fmt.Errorf("allocating color buffer: %w", err)
		}
	}
	s.pixels = pixels
	return nil
}

func (s *openCLStage) Step(dst, src *softfx.Frame, in frame.Inputs) error {
	layers := 1
	if s.variant == "fire" {
		layers = 2
	}
	if dst.Width != src.Width || dst.Height != src.Height {
		return fmt.Errorf("frame size mismatch %dx%d vs %dx%d", dst.Width, dst.Height, src.Width, src.Height)
	}
	if len(dst.Layers) < layers || len(src.Layers) < layers {
		return fmt.Errorf("%s needs %d layers", s.variant, layers)
	}
	pixels := src.Width * src.Height
	if err := s.ensureBuffers(pixels); err != nil {
		return err
	}
	if _, err := s.queue.EnqueueWriteBufferFloat32(s.inBuf, false, 0, src.Layers[0], nil); err != nil {
		return fmt.Errorf("writing source buffer: %w", err)
	}

	v := in.Params
	var err error
	switch s.variant {
	case "inc-color":
		rate := v.ColorRate
		err = s.kernel.SetArgs(
			int32(pixels),
			float32(in.Dt),
			rate[0], rate[1], rate[2],
			s.inBuf,
			s.outBuf,
		)
	case "fire":
		lum, con, freq, phase := v.PaletteLuminosity, v.PaletteContrast, v.PaletteFreq, v.PalettePhase
		err = s.kernel.SetArgs(
			int32(src.Width),
			int32(src.Height),
			math32.Min(float32(in.Dt), softfx.MaxFireStep),
			softfx.FlickerTick(in.Time),
			v.Diffusion,
			v.VerticalForce,
			v.Cooling,
			v.DissipationMinimum,
			int32(src.Height-max(v.SourceRows, 0)),
			v.SourceStrength,
			lum[0], lum[1], lum[2],
			con[0], con[1], con[2],
			freq[0], freq[1], freq[2],
			phase[0], phase[1], phase[2],
			v.TransparentRange.Min,
			v.TransparentRange.Max,
			s.inBuf,
			s.outBuf,
			s.colorBuf,
		)
	}
	if err != nil {
		return fmt.Errorf("setting kernel arguments: %w", err)
	}
	if _, err := s.queue.EnqueueNDRangeKernel(s.kernel, nil, []int{pixels}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing kernel: %w", err)
	}
	if _, err := s.queue.EnqueueReadBufferFloat32(s.outBuf, true, 0, dst.Layers[0], nil); err != nil {
		return fmt.Errorf("reading result buffer: %w", err)
	}
	if s.colorBuf != nil {
		if _, err := s.queue.EnqueueReadBufferFloat32(s.colorBuf, true, 0, dst.Layers[1], nil); err != nil {
			return fmt.Errorf("reading color buffer: %w", err)
		}
	}
	return nil
}

func (s *openCLStage) releaseBuffers() {
	for _, b := range []**cl.MemObject{&s.inBuf, &s.outBuf, &s.colorBuf} {
		if *b != nil {
			(*b).Release()
			*b = nil
		}
	}
	s.pixels = 0
}

func (s *openCLStage) Close() {
	s.releaseBuffers()
	if s.kernel != nil {
		s.kernel.Release()
		s.kernel = nil
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.context != nil {
		s.context.Release()
		s.context = nil
	}
}

func (s *openCLStage) DeviceName() string {
	return s.deviceName
}
