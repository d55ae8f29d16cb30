// Command inferra-webhook-server runs a small HTTP server that receives
// Inferra webhook callbacks, verifies their signatures, and prints the
// prediction updates it is notified about.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/inferra/inferra-go"
)

func main() {
	client, err := inferra.NewClient(inferra.WithTokenFromEnv())
	if err != nil {
		log.Fatal(err)
	}

	secret, err := client.GetDefaultWebhookSecret(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Post("/webhook", func(w http.ResponseWriter, req *http.Request) {
		valid, err := inferra.ValidateWebhookRequest(req, *secret)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !valid {
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}

		var prediction inferra.Prediction
		if err := json.NewDecoder(req.Body).Decode(&prediction); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		fmt.Printf("prediction %s: %s\n", prediction.ID, prediction.Status)
		w.WriteHeader(http.StatusOK)
	})

	addr := os.Getenv("WEBHOOK_SERVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	log.Printf("listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
