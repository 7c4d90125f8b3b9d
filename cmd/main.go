package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/adnanrahim110/payment-portal/internal/accounts"
	"github.com/adnanrahim110/payment-portal/internal/config"
	"github.com/adnanrahim110/payment-portal/internal/db"
	"github.com/adnanrahim110/payment-portal/internal/handlers"
	"github.com/adnanrahim110/payment-portal/internal/payments"
	"github.com/adnanrahim110/payment-portal/internal/services"
)

// corsMiddleware lets the separately deployed frontend call the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()

	if cfg.MongoURI == "" {
		log.Fatal("MONGO_URI environment variable not set")
	}

	client, err := db.Connect(context.Background(), cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Disconnect(ctx, client); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()
	log.Println("Successfully connected to MongoDB")

	database := client.Database(cfg.DatabaseName)

	linkService := services.NewLinkService(database)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := linkService.EnsureIndexes(ctx); err != nil {
			log.Printf("Warning: %v", err)
		}
		cancel()
	}

	directory := accounts.NewDirectory(cfg.Env)
	checkoutService := services.NewCheckoutService(
		linkService,
		directory,
		payments.NewStripeClient(),
		payments.NewPayPalClient(cfg.PayPalBaseURL),
		cfg.FrontendURL,
	)

	linkHandler := handlers.NewLinkHandler(linkService, checkoutService, directory)
	accountHandler := handlers.NewAccountHandler(directory)

	router := mux.NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("API is working!"))
	}).Methods("GET", "HEAD")

	router.HandleFunc("/api/payments", linkHandler.CreateLink).Methods("POST")
	router.HandleFunc("/api/payments", linkHandler.GetLinks).Methods("GET")
	router.HandleFunc("/api/payments/stripe", linkHandler.CheckoutStripe).Methods("POST")
	router.HandleFunc("/api/payments/paypal", linkHandler.CheckoutPayPal).Methods("POST")
	router.HandleFunc("/api/payments/complete/{paymentID}", linkHandler.CompleteLink).Methods("POST")
	router.HandleFunc("/api/payments/{paymentID}", linkHandler.GetLink).Methods("GET")

	router.HandleFunc("/api/payment-accounts", accountHandler.GetAccounts).Methods("GET")
	router.HandleFunc("/api/payment-accounts/{accountName}", accountHandler.GetAccount).Methods("GET")

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      corsMiddleware(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	log.Printf("Server running on port %s", cfg.Port)
	log.Fatal(server.ListenAndServe())
}
