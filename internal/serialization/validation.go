package serialization

import "sort"

// MaxTensorCount bounds the number of tensors in one file.
const MaxTensorCount = 1 << 16

// ValidateTensorOffsets checks that every tensor range is non-negative, lies
// inside a data section of dataSize bytes and does not overlap another.
//
// Comparisons are arranged so crafted offsets near MaxInt64 cannot overflow.
func ValidateTensorOffsets(tensors []TensorMeta, dataSize int64) error {
	if len(tensors) > MaxTensorCount {
		return invalidTensor("", "%d tensors, max %d", len(tensors), MaxTensorCount)
	}

	sorted := make([]TensorMeta, len(tensors))
	copy(sorted, tensors)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	for i, t := range sorted {
		if t.Offset < 0 || t.Size < 0 {
			return invalidTensor(t.Name, "negative offset %d or size %d", t.Offset, t.Size)
		}
		if t.Size > dataSize || t.Offset > dataSize-t.Size {
			return invalidTensor(t.Name, "offset %d + size %d outside data section of %d bytes", t.Offset, t.Size, dataSize)
		}
		if i < len(sorted)-1 {
			if next := sorted[i+1]; t.Offset+t.Size > next.Offset {
				return invalidTensor(t.Name, "range [%d, %d) overlaps tensor %q at %d",
					t.Offset, t.Offset+t.Size, next.Name, next.Offset)
			}
		}
	}
	return nil
}

// validateShape checks that shape has positive dimensions whose product fits
// in maxElements, and returns that product.
func validateShape(name string, shape []int, maxElements int) (int, error) {
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return 0, invalidTensor(name, "non-positive dimension in shape %v", shape)
		}
		if n > maxElements/d {
			return 0, invalidTensor(name, "shape %v exceeds data section of %d elements", shape, maxElements)
		}
		n *= d
	}
	return n, nil
}
