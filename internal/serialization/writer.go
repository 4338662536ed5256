package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"github.com/born-ml/backprop/internal/nn"
	"github.com/pkg/errors"
)

// Save writes params and metadata to w in .bpw format.
//
// Every parameter's value length must match its shape.
func Save(w io.Writer, params map[string]*nn.Parameter, metadata map[string]string) error {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	header := Header{
		FormatVersion: FormatVersion,
		CreatedAt:     time.Now().UTC(),
		Tensors:       make([]TensorMeta, 0, len(names)),
		Metadata:      metadata,
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	// Calculate tensor offsets and encode the data section
	var currentOffset int64
	var data []byte
	for _, name := range names {
		p := params[name]
		value := p.Value()
		if len(value) != numElements(p.Shape()) {
			return invalidTensor(name, "%d values for shape %v", len(value), p.Shape())
		}
		size := int64(len(value) * float64Size)
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			Shape:  append([]int(nil), p.Shape()...),
			Offset: currentOffset,
			Size:   size,
		})
		currentOffset += size

		for _, v := range value {
			data = binary.LittleEndian.AppendUint64(data, math.Float64bits(v))
		}
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "marshal header")
	}
	if len(headerJSON) > MaxHeaderSize {
		return errors.Wrapf(ErrHeaderTooLarge, "%d bytes", len(headerJSON))
	}
	checksum := ComputeChecksum(data)

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(MagicBytes); err != nil {
		return errors.Wrap(err, "write magic bytes")
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(headerJSON))); err != nil {
		return errors.Wrap(err, "write header size")
	}
	if _, err := bw.Write(headerJSON); err != nil {
		return errors.Wrap(err, "write header")
	}
	if _, err := bw.Write(checksum[:]); err != nil {
		return errors.Wrap(err, "write checksum")
	}
	if _, err := bw.Write(data); err != nil {
		return errors.Wrap(err, "write tensor data")
	}
	return errors.Wrap(bw.Flush(), "flush")
}

// SaveFile writes params and metadata to the file at path.
func SaveFile(path string, params map[string]*nn.Parameter, metadata map[string]string) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create file")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close file")
		}
	}()
	return Save(f, params, metadata)
}
