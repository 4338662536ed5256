// Package main provides the backprop CLI.
package main

import (
	"fmt"
	"log"
	"os"
)

const version = "v0.1.0"

func main() {
	log.SetFlags(log.Ltime)

	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "version":
		fmt.Printf("backprop %s\n", version)
	case "graph":
		err = runGraph(os.Stdout)
	case "train":
		err = runTrain(args)
	case "help", "-h", "--help":
		usage()
	default:
		usage()
		log.Fatalf("unknown command %q", cmd)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Println("backprop - layer-wise backpropagation on gonum matrices")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  graph      Walk the apple/orange purchase graph forward and backward")
	fmt.Println("  train      Train a two-layer network (run 'backprop train -h' for flags)")
}
