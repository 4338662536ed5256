package nn

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Sequential chains layers and ends in a SoftmaxWithLoss.
//
// Each layer's output becomes the next layer's input. Backward walks the
// layers in reverse, starting from the loss layer's gradient.
//
// Example:
//
//	model := nn.NewSequential(
//	    nn.NewSoftmaxWithLoss(nn.WithSoftmaxAxis(nn.AxisClass)),
//	    nn.NewAffineInit(784, 100, nn.He, rng),
//	    nn.NewReLU(),
//	    nn.NewAffineInit(100, 10, nn.He, rng),
//	)
//
//	loss, err := model.Loss(x, t)
//	err = model.Backward()
//	err = optimizer.Step()
type Sequential struct {
	layers []Layer
	loss   *SoftmaxWithLoss
}

// NewSequential creates a network from its terminal loss layer and an
// ordered list of layers.
func NewSequential(loss *SoftmaxWithLoss, layers ...Layer) *Sequential {
	return &Sequential{
		layers: layers,
		loss:   loss,
	}
}

// NewTwoLayerNet builds Affine -> ReLU -> Affine with He-initialized weights
// and a row-wise softmax loss.
func NewTwoLayerNet(in, hidden, out int, rng *rand.Rand) *Sequential {
	return NewSequential(
		NewSoftmaxWithLoss(WithSoftmaxAxis(AxisClass)),
		NewAffineInit(in, hidden, He, rng),
		NewReLU(),
		NewAffineInit(hidden, out, He, rng),
	)
}

// Add appends a layer before the loss layer.
func (s *Sequential) Add(layer Layer) {
	s.layers = append(s.layers, layer)
}

// Layers returns the layers in forward order.
func (s *Sequential) Layers() []Layer {
	return s.layers
}

// LossLayer returns the terminal loss layer.
func (s *Sequential) LossLayer() *SoftmaxWithLoss {
	return s.loss
}

// Predict runs x through every layer and returns the raw scores.
func (s *Sequential) Predict(x *mat.Dense) (*mat.Dense, error) {
	out := x
	for i, layer := range s.layers {
		var err error
		out, err = layer.Forward(out)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
	}
	return out, nil
}

// Loss runs a full forward pass and returns the mean per-sample loss.
func (s *Sequential) Loss(x, t *mat.Dense) (float64, error) {
	scores, err := s.Predict(x)
	if err != nil {
		return 0, err
	}
	loss, err := s.loss.Forward(scores, t)
	if err != nil {
		return 0, err
	}
	rows, _ := loss.Dims()
	return Sum(loss) / float64(rows), nil
}

// Backward propagates the loss gradient through all layers in reverse,
// leaving parameter gradients in every Affine layer.
func (s *Sequential) Backward() error {
	dout, err := s.loss.Backward()
	if err != nil {
		return err
	}
	for i := len(s.layers) - 1; i >= 0; i-- {
		dout, err = s.layers[i].Backward(dout)
		if err != nil {
			return errors.Wrapf(err, "layer %d", i)
		}
	}
	return nil
}

// Gradient runs Loss followed by Backward and returns the loss.
func (s *Sequential) Gradient(x, t *mat.Dense) (float64, error) {
	loss, err := s.Loss(x, t)
	if err != nil {
		return 0, err
	}
	return loss, s.Backward()
}

// Accuracy returns the fraction of rows whose highest score matches the
// highest target entry.
func (s *Sequential) Accuracy(x, t *mat.Dense) (float64, error) {
	scores, err := s.Predict(x)
	if err != nil {
		return 0, err
	}
	sr, sc := scores.Dims()
	tr, tc := t.Dims()
	if sr != tr || sc != tc {
		return 0, shapeError("Sequential", PhaseForward, "scores are %dx%d, targets are %dx%d", sr, sc, tr, tc)
	}

	correct := 0
	for i := 0; i < sr; i++ {
		if floats.MaxIdx(scores.RawRowView(i)) == floats.MaxIdx(t.RawRowView(i)) {
			correct++
		}
	}
	return float64(correct) / float64(sr), nil
}

// Parameters returns all trainable parameters from all layers.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for _, layer := range s.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

// Affines returns the Affine layers in forward order.
func (s *Sequential) Affines() []*Affine {
	var out []*Affine
	for _, layer := range s.layers {
		if a, ok := layer.(*Affine); ok {
			out = append(out, a)
		}
	}
	return out
}

// StateDict returns every parameter keyed as "layer.<index>.<name>".
func (s *Sequential) StateDict() map[string]*Parameter {
	state := make(map[string]*Parameter)
	for i, layer := range s.layers {
		for _, p := range layer.Parameters() {
			state[fmt.Sprintf("layer.%d.%s", i, p.Name())] = p
		}
	}
	return state
}

// LoadStateDict copies saved parameter values into the network.
//
// Every key of StateDict must be present with an identical shape.
func (s *Sequential) LoadStateDict(state map[string]*Parameter) error {
	for name, p := range s.StateDict() {
		saved, ok := state[name]
		if !ok {
			return errors.Errorf("missing %s in state dict", name)
		}
		if !slices.Equal(saved.Shape(), p.Shape()) || len(saved.Value()) != len(p.Value()) {
			return shapeError("Sequential", PhaseBuild, "%s: saved shape %v, layer shape %v", name, saved.Shape(), p.Shape())
		}
		copy(p.Value(), saved.Value())
	}
	return nil
}
