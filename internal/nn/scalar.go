package nn

// AddLayer is a scalar addition node: out = x + y.
//
// Backward pass:
//   - d(x+y)/dx = 1, so dx = dout
//   - d(x+y)/dy = 1, so dy = dout
//
// It keeps no state.
type AddLayer struct{}

// Forward returns x + y.
func (AddLayer) Forward(x, y float64) float64 {
	return x + y
}

// Backward passes dout unchanged to both addends.
func (AddLayer) Backward(dout float64) (dx, dy float64) {
	return dout, dout
}

// MulLayer is a scalar multiplication node: out = x * y.
//
// Backward pass:
//   - d(x*y)/dx = y, so dx = dout * y
//   - d(x*y)/dy = x, so dy = dout * x
//
// Forward remembers both operands for Backward.
type MulLayer struct {
	cache *mulCache
}

type mulCache struct {
	x, y float64
}

// NewMulLayer creates a fresh MulLayer. The zero value is also fresh.
func NewMulLayer() *MulLayer {
	return &MulLayer{}
}

// Forward stores x and y, replacing any earlier pair, and returns x * y.
func (m *MulLayer) Forward(x, y float64) float64 {
	m.cache = &mulCache{x: x, y: y}
	return x * y
}

// Backward returns (dout * y, dout * x) for the last Forward operands.
// Returns ErrNotReady before the first Forward.
func (m *MulLayer) Backward(dout float64) (dx, dy float64, err error) {
	if m.cache == nil {
		return 0, 0, notReadyError("MulLayer")
	}
	return dout * m.cache.y, dout * m.cache.x, nil
}
