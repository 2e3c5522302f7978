package main

import (
	"fmt"
	"os"

	"go-jobboard-backend/pkg/security"
)

// Prints a bcrypt hash for each password argument, for seeding users by hand.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: go run scripts/genhash.go <password>...")
		os.Exit(2)
	}

	for _, pass := range os.Args[1:] {
		hash, err := security.HashPassword(pass)
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}
		fmt.Printf("Password: %s\nHash: %s\n\n", pass, hash)
	}
}
