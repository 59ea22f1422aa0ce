package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
)

func main() {
	// Default port
	port := "8081"

	// Check if port is provided as command line argument
	if len(os.Args) > 1 {
		port = os.Args[1]
	}

	store := NewOfferStore()

	mux := http.NewServeMux()
	mux.Handle("POST /air/offer_requests", RequireToken(OfferRequestHandler(store)))
	mux.Handle("GET /air/offers/{id}", RequireToken(OfferHandler(store)))
	mux.Handle("POST /air/orders", RequireToken(OrderHandler(store)))

	addr := fmt.Sprintf(":%s", port)
	fmt.Printf("Duffel mock server running on port %s...\n", port)
	fmt.Printf("point DUFFEL_BASE_URL at http://localhost:%s/air\n", port)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}
