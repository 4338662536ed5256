package nn

// Parameter is a trainable array owned by a layer, exposed to optimizers.
//
// Value aliases the layer's own storage, so an optimizer writing into it
// updates the layer in place. Grad aliases the gradient computed by the
// layer's most recent Backward call and is nil before that.
//
// Example:
//
//	for _, p := range affine.Parameters() {
//	    fmt.Println(p.Name(), len(p.Value()), p.Grad() != nil)
//	}
type Parameter struct {
	name  string
	shape []int
	value []float64
	grad  []float64
}

// NewParameter creates a parameter over value with the given logical shape.
func NewParameter(name string, value []float64, shape ...int) *Parameter {
	return &Parameter{
		name:  name,
		shape: shape,
		value: value,
	}
}

// Name returns the parameter name (e.g., "weight", "bias").
func (p *Parameter) Name() string {
	return p.name
}

// Shape returns the logical shape: [rows, cols] for weights, [n] for biases.
func (p *Parameter) Shape() []int {
	return p.shape
}

// Value returns the parameter storage.
func (p *Parameter) Value() []float64 {
	return p.value
}

// Grad returns the gradient from the last backward pass, or nil.
func (p *Parameter) Grad() []float64 {
	return p.grad
}

// SetGrad sets the gradient slice.
func (p *Parameter) SetGrad(grad []float64) {
	p.grad = grad
}

// ZeroGrad clears the gradient.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}
