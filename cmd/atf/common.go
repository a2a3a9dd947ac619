package main

import (
	"fmt"

	"github.com/atf-go/atf/pkg/abort"
	"github.com/atf-go/atf/pkg/technique"
)

const version = "0.1.0"

func printVersion() {
	fmt.Printf("atf %s\n", version)
}

func listCapabilities() {
	fmt.Println("Registered Capabilities")
	fmt.Println("========================")
	fmt.Println()

	fmt.Printf("Search techniques (%d):\n", technique.Registry.Count())
	for _, name := range technique.Registry.List() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println()

	fmt.Printf("Abort conditions (%d):\n", abort.Registry.Count())
	for _, name := range abort.Registry.List() {
		fmt.Printf("  - %s\n", name)
	}
}
