package serialization_test

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/born-ml/backprop/internal/nn"
	"github.com/born-ml/backprop/internal/serialization"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// encode assembles a raw .bpw stream so tests can break individual fields.
func encode(t *testing.T, header serialization.Header, data []byte) []byte {
	t.Helper()
	headerJSON, err := json.Marshal(header)
	require.NoError(t, err)

	var buf bytes.Buffer
	buf.WriteString(serialization.MagicBytes)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(headerJSON))))
	buf.Write(headerJSON)
	sum := serialization.ComputeChecksum(data)
	buf.Write(sum[:])
	buf.Write(data)
	return buf.Bytes()
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	params := map[string]*nn.Parameter{
		"w": nn.NewParameter("w", []float64{1, -2.5, 3, 4e-9, 5, 6}, 2, 3),
		"b": nn.NewParameter("b", []float64{0.1, 0.2, 0.3}, 3),
	}

	var buf bytes.Buffer
	require.NoError(t, serialization.Save(&buf, params, map[string]string{"hidden": "3"}))
	assert.Equal(t, serialization.MagicBytes, buf.String()[:4])

	file, err := serialization.Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, serialization.FormatVersion, file.Header.FormatVersion)
	assert.Equal(t, "3", file.Header.Metadata["hidden"])
	require.Len(t, file.Header.Tensors, 2)
	assert.Equal(t, "b", file.Header.Tensors[0].Name)
	assert.Equal(t, int64(24), file.Header.Tensors[1].Offset)

	w, err := file.Param("w")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, w.Shape())
	assert.Equal(t, params["w"].Value(), w.Value())

	_, err = file.Param("missing")
	assert.True(t, errors.Is(err, serialization.ErrMissingTensor))
}

func TestSaveLoadFile_Sequential(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	src := nn.NewTwoLayerNet(4, 5, 3, rng)
	dst := nn.NewTwoLayerNet(4, 5, 3, rand.New(rand.NewSource(2)))

	path := filepath.Join(t.TempDir(), "model.bpw")
	require.NoError(t, serialization.SaveFile(path, src.StateDict(), nil))

	file, err := serialization.LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, dst.LoadStateDict(file.Params))

	x := mat.NewDense(2, 4, []float64{1, 2, 3, 4, -1, 0, 0.5, 2})
	want, err := src.Predict(x)
	require.NoError(t, err)
	got, err := dst.Predict(x)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))
}

func TestLoad_InvalidMagic(t *testing.T) {
	_, err := serialization.Load(bytes.NewReader([]byte("BORN\x00\x00\x00\x00")))
	assert.True(t, errors.Is(err, serialization.ErrInvalidMagic))
}

func TestLoad_ChecksumMismatch(t *testing.T) {
	params := map[string]*nn.Parameter{
		"w": nn.NewParameter("w", []float64{1, 2}, 2),
	}
	var buf bytes.Buffer
	require.NoError(t, serialization.Save(&buf, params, nil))

	raw := buf.Bytes()
	raw[len(raw)-1] ^= 0xFF

	_, err := serialization.Load(bytes.NewReader(raw))
	assert.True(t, errors.Is(err, serialization.ErrChecksumMismatch))
}

func TestLoad_UnsupportedVersion(t *testing.T) {
	raw := encode(t, serialization.Header{FormatVersion: 99}, nil)

	_, err := serialization.Load(bytes.NewReader(raw))
	assert.True(t, errors.Is(err, serialization.ErrUnsupportedVersion))
}

func TestLoad_InvalidTensor(t *testing.T) {
	data := make([]byte, 16)
	cases := map[string]serialization.TensorMeta{
		"size mismatch":  {Name: "a", Shape: []int{3}, Offset: 0, Size: 16},
		"out of bounds":  {Name: "a", Shape: []int{2}, Offset: 8, Size: 16},
		"negative dim":   {Name: "a", Shape: []int{-2}, Offset: 0, Size: 16},
		"negative start": {Name: "a", Shape: []int{1}, Offset: -8, Size: 8},
	}
	for name, meta := range cases {
		raw := encode(t, serialization.Header{
			FormatVersion: serialization.FormatVersion,
			Tensors:       []serialization.TensorMeta{meta},
		}, data)

		_, err := serialization.Load(bytes.NewReader(raw))
		assert.True(t, errors.Is(err, serialization.ErrInvalidTensor), name)

		var tensorErr *serialization.TensorError
		if assert.True(t, errors.As(err, &tensorErr), name) {
			assert.Equal(t, "a", tensorErr.Tensor)
		}
	}
}

func TestLoad_CraftedHeader(t *testing.T) {
	data := make([]byte, 16)
	cases := map[string][]serialization.TensorMeta{
		"offset near max int": {{Name: "a", Shape: []int{2}, Offset: math.MaxInt64 - 7, Size: 16}},
		"size near max int":   {{Name: "a", Shape: []int{2}, Offset: 8, Size: math.MaxInt64}},
		"huge shape":          {{Name: "a", Shape: []int{1 << 61}, Offset: 0, Size: 0}},
		"shape product wraps": {{Name: "a", Shape: []int{1 << 32, 1 << 32}, Offset: 0, Size: 0}},
		"overlap": {
			{Name: "a", Shape: []int{2}, Offset: 0, Size: 16},
			{Name: "b", Shape: []int{1}, Offset: 8, Size: 8},
		},
	}
	for name, tensors := range cases {
		raw := encode(t, serialization.Header{
			FormatVersion: serialization.FormatVersion,
			Tensors:       tensors,
		}, data)

		var err error
		require.NotPanics(t, func() {
			_, err = serialization.Load(bytes.NewReader(raw))
		}, name)
		assert.True(t, errors.Is(err, serialization.ErrInvalidTensor), name)
	}
}

func TestValidateTensorOffsets(t *testing.T) {
	ok := []serialization.TensorMeta{
		{Name: "b", Offset: 16, Size: 8},
		{Name: "a", Offset: 0, Size: 16},
	}
	assert.NoError(t, serialization.ValidateTensorOffsets(ok, 24))

	err := serialization.ValidateTensorOffsets(ok, 23)
	var tensorErr *serialization.TensorError
	require.True(t, errors.As(err, &tensorErr))
	assert.Equal(t, "b", tensorErr.Tensor)
}

func TestSave_ShapeMismatch(t *testing.T) {
	params := map[string]*nn.Parameter{
		"w": nn.NewParameter("w", []float64{1, 2, 3}, 2, 2),
	}
	err := serialization.Save(&bytes.Buffer{}, params, nil)
	assert.True(t, errors.Is(err, serialization.ErrInvalidTensor))
}

func TestValidateChecksum(t *testing.T) {
	data := []byte("test data")
	sum := serialization.ComputeChecksum(data)
	assert.NoError(t, serialization.ValidateChecksum(data, sum))
	assert.Len(t, sum, 32)

	err := serialization.ValidateChecksum([]byte("different data"), sum)
	assert.True(t, errors.Is(err, serialization.ErrChecksumMismatch))
}
