package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/born-ml/backprop/internal/nn"
	"github.com/pkg/errors"
)

// File is a decoded .bpw file.
type File struct {
	Header Header
	Params map[string]*nn.Parameter
}

// Param returns the named parameter or ErrMissingTensor.
func (f *File) Param(name string) (*nn.Parameter, error) {
	p, ok := f.Params[name]
	if !ok {
		return nil, errors.Wrapf(ErrMissingTensor, "%q", name)
	}
	return p, nil
}

// Load reads a .bpw file from r.
//
// The data section is verified against the stored checksum before any
// tensor is decoded.
func Load(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, len(MagicBytes))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, errors.Wrap(err, "read magic bytes")
	}
	if string(magic) != MagicBytes {
		return nil, errors.Wrapf(ErrInvalidMagic, "got %q, want %q", magic, MagicBytes)
	}

	var headerSize uint32
	if err := binary.Read(br, binary.LittleEndian, &headerSize); err != nil {
		return nil, errors.Wrap(err, "read header size")
	}
	if headerSize > MaxHeaderSize {
		return nil, errors.Wrapf(ErrHeaderTooLarge, "%d bytes", headerSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(br, headerJSON); err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, errors.Wrap(err, "parse header")
	}
	if header.FormatVersion != FormatVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "version %d", header.FormatVersion)
	}

	var checksum [ChecksumSize]byte
	if _, err := io.ReadFull(br, checksum[:]); err != nil {
		return nil, errors.Wrap(err, "read checksum")
	}
	data, err := io.ReadAll(br)
	if err != nil {
		return nil, errors.Wrap(err, "read tensor data")
	}
	if err := ValidateChecksum(data, checksum); err != nil {
		return nil, err
	}

	if err := ValidateTensorOffsets(header.Tensors, int64(len(data))); err != nil {
		return nil, err
	}

	params := make(map[string]*nn.Parameter, len(header.Tensors))
	for _, meta := range header.Tensors {
		value, err := decodeTensor(meta, data)
		if err != nil {
			return nil, err
		}
		if _, dup := params[meta.Name]; dup {
			return nil, invalidTensor(meta.Name, "duplicate name")
		}
		params[meta.Name] = nn.NewParameter(meta.Name, value, meta.Shape...)
	}

	return &File{Header: header, Params: params}, nil
}

// LoadFile reads the .bpw file at path.
func LoadFile(path string) (*File, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open file")
	}
	defer f.Close()
	return Load(f)
}

func decodeTensor(meta TensorMeta, data []byte) ([]float64, error) {
	n, err := validateShape(meta.Name, meta.Shape, len(data)/float64Size)
	if err != nil {
		return nil, err
	}
	if meta.Size != int64(n)*float64Size {
		return nil, invalidTensor(meta.Name, "size %d does not match shape %v", meta.Size, meta.Shape)
	}

	raw := data[meta.Offset : meta.Offset+meta.Size]
	value := make([]float64, n)
	for i := range value {
		value[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*float64Size:]))
	}
	return value, nil
}
