package main

import (
	"log"

	"github.com/motonorte/storefront-go/internal/application/startup"
)

func main() {
	if err := startup.Run(); err != nil {
		log.Fatalf("storefront-go: %v", err)
	}
}
