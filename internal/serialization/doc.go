// Package serialization saves and loads network weights in the .bpw format.
//
// A .bpw file holds named float64 arrays with their shapes:
//
//	Format Structure:
//	  [4 bytes: Magic "BPW1"]
//	  [4 bytes: Header Size (uint32 LE)]
//	  [Header: JSON metadata]
//	  [32 bytes: SHA-256 of the data section]
//	  [Data: float64 LE values, tensors back to back]
//
// Tensors are written in name order, so saving the same weights twice
// produces identical bytes apart from the creation time.
//
// Example usage:
//
//	// Save a network
//	f, _ := os.Create("model.bpw")
//	err := serialization.Save(f, net.StateDict(), map[string]string{"hidden": "50"})
//
//	// Load it back
//	file, err := serialization.LoadFile("model.bpw")
//	err = net.LoadStateDict(file.Params)
package serialization
