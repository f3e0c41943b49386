// Package post chains screen-space stages over a ping-pong buffer
// pair. The distortion compositor is one stage; hosts can slot their
// own color passes before or after it.
package post

import (
	"go.uber.org/zap"

	"Mirage2D/internal/logger"
	"Mirage2D/internal/texture"
)

// Stage is one screen-space pass over a color buffer. Stages must
// tolerate input sizes changing between frames.
type Stage interface {
	Name() string
	Resize(w, h int)
	Render(in, out *texture.Texture)
}

// Chain runs its stages in order. Stage n reads the buffer stage n-1
// wrote, through a shared ping-pong pair, so any number of stages needs
// only two intermediate buffers.
type Chain struct {
	stages []Stage
	bufs   *texture.PingPong
	w, h   int
}

func NewChain(w, h int) *Chain {
	logger.Init()
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Chain{bufs: texture.NewPingPong(w, h, 4), w: w, h: h}
}

// Add appends a stage and sizes it to the chain.
func (c *Chain) Add(s Stage) {
	s.Resize(c.w, c.h)
	c.stages = append(c.stages, s)
	logger.Log.Info("Post stage added",
		zap.String("stage", s.Name()),
		zap.Int("stages", len(c.stages)))
}

// Len returns the number of stages.
func (c *Chain) Len() int {
	return len(c.stages)
}

// Resize propagates a new target size to the buffers and every stage.
func (c *Chain) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		logger.Log.Debug("Ignoring degenerate chain resize",
			zap.Int("width", w), zap.Int("height", h))
		return
	}
	if w == c.w && h == c.h {
		return
	}
	c.w, c.h = w, h
	c.bufs.ResizeBuffer(w, h)
	for _, s := range c.stages {
		s.Resize(w, h)
	}
}

// Render pushes the frame through every stage and returns the buffer
// holding the final image. With no stages the input passes through
// untouched. The returned buffer is owned by the chain and valid until
// the next Render call.
func (c *Chain) Render(in *texture.Texture) *texture.Texture {
	if len(c.stages) == 0 {
		return in
	}
	src := in
	for _, s := range c.stages {
		dst := c.bufs.Write()
		s.Render(src, dst)
		src = dst
		c.bufs.Swap()
	}
	return src
}

// Blit copies its input unchanged. It stands in where a host will later
// plug a real pass, and doubles as the chain's no-op terminator.
type Blit struct{}

func (Blit) Name() string { return "blit" }

func (Blit) Resize(w, h int) {}

func (Blit) Render(in, out *texture.Texture) {
	out.ResizeBuffer(in.W, in.H)
	if out.CopyFrom(in) {
		return
	}
	for y := 0; y < in.H; y++ {
		for x := 0; x < in.W; x++ {
			out.Set(x, y, in.At(x, y))
		}
	}
}
