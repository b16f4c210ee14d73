package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gnemet/dbadmin/internal/catalog"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: catalog-validator <catalog_path1> [catalog_path2] ...")
		os.Exit(1)
	}

	allValid := true
	for _, arg := range os.Args[1:] {
		data, err := os.ReadFile(arg)
		if err != nil {
			fmt.Printf("❌ Cannot read %s: %v\n", arg, err)
			allValid = false
			continue
		}

		violations, err := catalog.Validate(data)
		if err != nil {
			fmt.Printf("❌ Error validating %s: %v\n", filepath.Base(arg), err)
			allValid = false
			continue
		}

		if len(violations) == 0 {
			fmt.Printf("✅ %s is valid.\n", filepath.Base(arg))
		} else {
			fmt.Printf("❌ %s is invalid!\n", filepath.Base(arg))
			for _, desc := range violations {
				fmt.Printf("   - %s\n", desc)
			}
			allValid = false
		}
	}

	if !allValid {
		os.Exit(1)
	}
}
