// File: cmd/s3sh/main.go
package main

import (
	"os"

	// Registers every storage provider backend
	_ "s3sh/internal/provider"
)

func main() {
	os.Exit(Execute())
}
