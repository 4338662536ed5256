package serialization

import (
	"crypto/sha256"

	"github.com/pkg/errors"
)

// ChecksumSize is the size of the SHA-256 checksum stored after the header.
const ChecksumSize = sha256.Size

// ComputeChecksum computes the SHA-256 checksum of data.
func ComputeChecksum(data []byte) [ChecksumSize]byte {
	return sha256.Sum256(data)
}

// ValidateChecksum compares the checksum of data against stored.
// Returns ErrChecksumMismatch if they don't match.
func ValidateChecksum(data []byte, stored [ChecksumSize]byte) error {
	if computed := ComputeChecksum(data); computed != stored {
		return errors.Wrapf(ErrChecksumMismatch, "computed %x, stored %x", computed[:4], stored[:4])
	}
	return nil
}
