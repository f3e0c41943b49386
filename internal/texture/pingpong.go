package texture

// PingPong is a pair of equally sized textures for multi-pass filters:
// read from one, write the other, swap.
type PingPong struct {
	bufs [2]*Texture
	idx  int
}

// NewPingPong creates a pair of zeroed buffers.
func NewPingPong(w, h, channels int) *PingPong {
	return &PingPong{
		bufs: [2]*Texture{New(w, h, channels), New(w, h, channels)},
	}
}

// Read returns the buffer holding the previous pass output.
func (p *PingPong) Read() *Texture {
	return p.bufs[p.idx]
}

// Write returns the buffer the next pass should render into.
func (p *PingPong) Write() *Texture {
	return p.bufs[1-p.idx]
}

// Swap makes the last written buffer the readable one.
func (p *PingPong) Swap() {
	p.idx = 1 - p.idx
}

// ResizeBuffer reallocates both buffers, discarding contents.
func (p *PingPong) ResizeBuffer(w, h int) {
	p.bufs[0].ResizeBuffer(w, h)
	p.bufs[1].ResizeBuffer(w, h)
}
