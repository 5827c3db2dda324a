package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/MarcGrol/storefront/lib/myhttpclient"
	"github.com/MarcGrol/storefront/lib/mymetrics"
	"github.com/MarcGrol/storefront/lib/mypublisher"
	"github.com/MarcGrol/storefront/lib/mypubsub"
	"github.com/MarcGrol/storefront/lib/myqueue"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/lib/mytime"
	"github.com/MarcGrol/storefront/lib/myuuid"
	"github.com/MarcGrol/storefront/services/cart"
	"github.com/MarcGrol/storefront/services/catalog"
	"github.com/MarcGrol/storefront/services/checkout"
	"github.com/MarcGrol/storefront/services/order"
	"github.com/MarcGrol/storefront/services/paypalgateway"
)

func main() {
	c := context.Background()

	// a .env file is optional: the real environment takes precedence
	err := godotenv.Load()
	if err != nil {
		log.Printf("No .env file found, using environment as-is")
	}

	router := mux.NewRouter()

	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}
	metrics := mymetrics.New()

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating task-queue: %s", err)
	}
	defer queueCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, nower)
	if err != nil {
		log.Fatalf("Error creating publisher: %s", err)
	}
	defer publisherCleanup()
	publisher.RegisterEndpoints(c, router)

	productStore, productStoreCleanup, err := mystore.New[catalog.Product](c)
	if err != nil {
		log.Fatalf("Error creating product-store: %s", err)
	}
	defer productStoreCleanup()

	cartStore, cartStoreCleanup, err := mystore.New[cart.Cart](c)
	if err != nil {
		log.Fatalf("Error creating cart-store: %s", err)
	}
	defer cartStoreCleanup()

	checkoutStore, checkoutStoreCleanup, err := mystore.New[checkout.CheckoutState](c)
	if err != nil {
		log.Fatalf("Error creating checkout-store: %s", err)
	}
	defer checkoutStoreCleanup()

	orderStore, orderStoreCleanup, err := mystore.New[order.Order](c)
	if err != nil {
		log.Fatalf("Error creating order-store: %s", err)
	}
	defer orderStoreCleanup()

	catalogService := catalog.NewWebService(productStore, pubsub, publisher)
	err = catalogService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering catalog service: %s", err)
	}

	cartService := cart.NewWebService(cartStore, productStore, publisher, nower, metrics)
	err = cartService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering cart service: %s", err)
	}

	checkoutService := checkout.NewWebService(checkoutStore, cartStore, publisher, nower)
	err = checkoutService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering checkout service: %s", err)
	}

	payer := paypalgateway.NewPayer(paypalBaseURL(), myhttpclient.New())
	orderService := order.NewWebService(orderStore, cartStore, checkoutStore, payer, publisher, queue, nower, uuider, metrics, processingDelay())
	err = orderService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering order service: %s", err)
	}

	router.Handle("/metrics", mymetrics.Handler()).Methods("GET")

	startWebServerBlocking(router)
}

func paypalBaseURL() string {
	baseURL := os.Getenv("PAYPAL_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.sandbox.paypal.com"
	}
	return baseURL
}

func processingDelay() time.Duration {
	ms, err := strconv.Atoi(os.Getenv("PROCESSING_DELAY_MS"))
	if err != nil || ms < 0 {
		return 2 * time.Second
	}
	return time.Duration(ms) * time.Millisecond
}

func startWebServerBlocking(router *mux.Router) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
