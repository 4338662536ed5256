package serialization

import "time"

// Format constants.
const (
	MagicBytes    = "BPW1"
	FormatVersion = 1
	MaxHeaderSize = 16 << 20 // 16 MiB
	float64Size   = 8
)

// Header represents the JSON header in a .bpw file.
type Header struct {
	FormatVersion int               `json:"format_version"` // Version of the .bpw format
	CreatedAt     time.Time         `json:"created_at"`     // When the file was created
	Tensors       []TensorMeta      `json:"tensors"`        // Tensor metadata, in data order
	Metadata      map[string]string `json:"metadata"`       // Custom metadata (hyperparameters etc.)
}

// TensorMeta describes a tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`   // Tensor name (e.g., "layer.0.weight")
	Shape  []int  `json:"shape"`  // Logical shape
	Offset int64  `json:"offset"` // Offset in bytes from the start of the data section
	Size   int64  `json:"size"`   // Size in bytes
}

// numElements returns the element count implied by shape.
func numElements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
