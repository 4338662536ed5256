package main

import (
	"fmt"
	"io"

	"github.com/born-ml/backprop/internal/nn"
)

// Purchase graph inputs.
const (
	applePrice  = 100.0
	appleNum    = 2.0
	orangePrice = 150.0
	orangeNum   = 3.0
	taxRate     = 1.1
)

// runGraph prints the forward price and the backward derivatives of
//
//	price = (applePrice*appleNum + orangePrice*orangeNum) * taxRate
func runGraph(w io.Writer) error {
	mulApple := nn.NewMulLayer()
	mulOrange := nn.NewMulLayer()
	var addFruit nn.AddLayer
	mulTax := nn.NewMulLayer()

	// Forward
	appleTotal := mulApple.Forward(applePrice, appleNum)
	orangeTotal := mulOrange.Forward(orangePrice, orangeNum)
	subtotal := addFruit.Forward(appleTotal, orangeTotal)
	price := mulTax.Forward(subtotal, taxRate)

	// Backward
	dSubtotal, dTax, err := mulTax.Backward(1)
	if err != nil {
		return err
	}
	dAppleTotal, dOrangeTotal := addFruit.Backward(dSubtotal)
	dApple, dAppleNum, err := mulApple.Backward(dAppleTotal)
	if err != nil {
		return err
	}
	dOrange, dOrangeNum, err := mulOrange.Backward(dOrangeTotal)
	if err != nil {
		return err
	}

	for _, row := range []struct {
		name  string
		value float64
	}{
		{"price", price},
		{"dApple", dApple},
		{"dAppleNum", dAppleNum},
		{"dOrange", dOrange},
		{"dOrangeNum", dOrangeNum},
		{"dTax", dTax},
	} {
		if _, err := fmt.Fprintf(w, "%-12s%.6g\n", row.name+":", row.value); err != nil {
			return err
		}
	}
	return nil
}
