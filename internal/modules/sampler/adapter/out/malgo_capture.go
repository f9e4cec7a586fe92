package out

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/gen2brain/malgo"

	samplerout "rehearse/internal/modules/sampler/port/out"
)

const (
	captureSampleRate = 16000
	windowSize        = 256
	binCount          = 32
)

// MalgoCapture records mono 16-bit PCM from the default input device and
// keeps the magnitude spectrum of the most recent window.
type MalgoCapture struct {
	mu      sync.Mutex
	ctx     *malgo.AllocatedContext
	device  *malgo.Device
	window  []float64
	bins    []byte
	started bool
}

func NewMalgoCapture() samplerout.Capture {
	return &MalgoCapture{}
}

func (c *MalgoCapture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("init audio context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = captureSampleRate
	deviceConfig.PeriodSizeInMilliseconds = 20

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			c.consume(input)
		},
	})
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("init capture device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("start capture device: %w", err)
	}
	c.ctx = ctx
	c.device = device
	c.started = true
	return nil
}

// consume runs on the audio thread; it only appends samples and, once a full
// window is buffered, swaps in a fresh spectrum.
func (c *MalgoCapture) consume(input []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 0; i+1 < len(input); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(input[i:]))
		c.window = append(c.window, float64(sample)/math.MaxInt16)
		if len(c.window) == windowSize {
			c.bins = spectrum(c.window, binCount)
			c.window = c.window[:0]
		}
	}
}

func (c *MalgoCapture) Bins() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bins == nil {
		return nil
	}
	out := make([]byte, len(c.bins))
	copy(out, c.bins)
	return out
}

func (c *MalgoCapture) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return
	}
	c.device.Uninit()
	_ = c.ctx.Uninit()
	c.ctx.Free()
	c.device = nil
	c.ctx = nil
	c.started = false
}

// spectrum computes 8-bit magnitudes for the lowest bins of a real DFT over
// the window. The window is short and the bin count small, so the naive
// O(n*bins) transform stays well under the frame budget.
func spectrum(window []float64, bins int) []byte {
	out := make([]byte, bins)
	n := len(window)
	for k := 1; k <= bins; k++ {
		var re, im float64
		for i, sample := range window {
			angle := 2 * math.Pi * float64(k) * float64(i) / float64(n)
			re += sample * math.Cos(angle)
			im -= sample * math.Sin(angle)
		}
		magnitude := 2 * math.Sqrt(re*re+im*im) / float64(n)
		scaled := magnitude * 4 * 255
		if scaled > 255 {
			scaled = 255
		}
		out[k-1] = byte(scaled)
	}
	return out
}
