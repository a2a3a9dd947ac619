package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	// Import for side effects: register every search technique and
	// abort condition via init().
	_ "github.com/atf-go/atf/pkg/abort"
	_ "github.com/atf-go/atf/pkg/technique"
)

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("atf"),
		kong.Description("atf - auto-tuning framework core"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.Exit(func(code int) {
			if code != 0 {
				os.Exit(2)
			}
			os.Exit(0)
		}),
	)

	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
