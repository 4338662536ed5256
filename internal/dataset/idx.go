package dataset

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/born-ml/backprop/internal/parallel"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// IDX magic numbers.
const (
	idxImagesMagic = 2051 // 0x00000803
	idxLabelsMagic = 2049 // 0x00000801
)

// LoadIDX loads an MNIST-style dataset from an IDX image file and an IDX
// label file.
//
// Pixels are normalized from 0-255 to [0, 1]; labels become classes 0-9.
// maxSamples limits the number of samples (0 = load all).
func LoadIDX(imagesPath, labelsPath string, maxSamples int) (*Dataset, error) {
	images, rows, cols, err := readIDXImagesFile(imagesPath, maxSamples)
	if err != nil {
		return nil, errors.Wrap(err, "load images")
	}
	labels, err := readIDXLabelsFile(labelsPath, maxSamples)
	if err != nil {
		return nil, errors.Wrap(err, "load labels")
	}
	if len(images) != len(labels) {
		return nil, errors.Errorf("image count (%d) != label count (%d)", len(images), len(labels))
	}

	n := len(images)
	if n == 0 {
		return nil, ErrEmpty
	}

	features := rows * cols
	data := make([]float64, n*features)
	ls := make([]int, n)
	parallel.For(n, func(i int) {
		row := data[i*features : (i+1)*features]
		for j, px := range images[i] {
			row[j] = float64(px) / 255.0
		}
		ls[i] = int(labels[i])
	}, parallel.DefaultConfig())

	return New(mat.NewDense(n, features, data), ls, 10)
}

func readIDXImagesFile(path string, maxSamples int) ([][]byte, int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return nil, 0, 0, err
	}
	return readIDXImages(file, maxSamples, info.Size())
}

func readIDXLabelsFile(path string, maxSamples int) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	return readIDXLabels(file, maxSamples, info.Size())
}

// sampleCount caps the header count at maxSamples (0 = no cap) and checks
// that count records of recordSize bytes fit in the payload.
func sampleCount(count, maxSamples int, recordSize, payload int64) (int, error) {
	if maxSamples > 0 && count > maxSamples {
		count = maxSamples
	}
	if recordSize <= 0 {
		return 0, errors.Errorf("invalid record size %d", recordSize)
	}
	if int64(count) > payload/recordSize {
		return 0, errors.Errorf("header declares %d records of %d bytes, file holds %d bytes", count, recordSize, payload)
	}
	return count, nil
}

// readIDXImages reads images in IDX format.
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes
//	number of cols: 4 bytes
//	pixel data: unsigned bytes (0-255)
func readIDXImages(r io.Reader, maxSamples int, size int64) ([][]byte, int, int, error) {
	var header [4]uint32 // magic, count, rows, cols
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, 0, 0, errors.Wrap(err, "read header")
	}
	if header[0] != idxImagesMagic {
		return nil, 0, 0, errors.Errorf("invalid magic number: got %d, want %d", header[0], idxImagesMagic)
	}

	numRows, numCols := int64(header[2]), int64(header[3])
	numImages, err := sampleCount(int(header[1]), maxSamples, numRows*numCols, size-16)
	if err != nil {
		return nil, 0, 0, err
	}
	images := make([][]byte, numImages)
	for i := range images {
		images[i] = make([]byte, numRows*numCols)
		if _, err := io.ReadFull(r, images[i]); err != nil {
			return nil, 0, 0, errors.Wrapf(err, "read image %d", i)
		}
	}
	return images, int(numRows), int(numCols), nil
}

// readIDXLabels reads labels in IDX format.
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes (0-9)
func readIDXLabels(r io.Reader, maxSamples int, size int64) ([]byte, error) {
	var header [2]uint32 // magic, count
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	if header[0] != idxLabelsMagic {
		return nil, errors.Errorf("invalid magic number: got %d, want %d", header[0], idxLabelsMagic)
	}

	count, err := sampleCount(int(header[1]), maxSamples, 1, size-8)
	if err != nil {
		return nil, err
	}
	labels := make([]byte, count)
	if _, err := io.ReadFull(r, labels); err != nil {
		return nil, errors.Wrap(err, "read labels")
	}
	return labels, nil
}
