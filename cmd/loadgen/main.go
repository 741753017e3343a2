// Load generator: fires concurrent seller orders at a running server and
// reports how many were accepted vs rejected. Useful for exercising the
// per-product reservation path under contention.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

func main() {
	target := flag.String("target", "http://localhost:8080", "server base URL")
	productID := flag.Int64("product", 1, "product id to order")
	quantity := flag.Int("quantity", 1, "quantity per order")
	requests := flag.Int("requests", 50, "number of concurrent orders")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	var accepted atomic.Int32
	var rejected atomic.Int32
	var failed atomic.Int32
	var wg sync.WaitGroup

	start := time.Now()
	for i := 0; i < *requests; i++ {
		wg.Add(1)
		go func(sellerID int) {
			defer wg.Done()

			body, _ := json.Marshal(map[string]any{
				"sellerId":     sellerID + 1,
				"customerName": fmt.Sprintf("loadgen-%d", sellerID),
				"items": []map[string]any{
					{"productId": *productID, "quantity": *quantity},
				},
			})

			resp, err := client.Post(*target+"/order", "application/json", bytes.NewReader(body))
			if err != nil {
				failed.Add(1)
				return
			}
			defer resp.Body.Close()

			switch resp.StatusCode {
			case http.StatusOK:
				accepted.Add(1)
			case http.StatusBadRequest:
				rejected.Add(1)
			default:
				failed.Add(1)
			}
		}(i)
	}
	wg.Wait()

	log.Printf("done in %v: accepted=%d rejected=%d failed=%d",
		time.Since(start), accepted.Load(), rejected.Load(), failed.Load())
}
