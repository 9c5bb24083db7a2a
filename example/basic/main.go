// Command basic demonstrates the courier client against a public JSON API:
// typed decoding, per-call overrides, the failure taxonomy, and debug
// logging with cURL rendering.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	courier "github.com/meridian-labs/courier-go/courier"
	"github.com/rs/zerolog"
)

type Todo struct {
	ID        int    `json:"id" validate:"required"`
	UserID    int    `json:"userId" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Completed bool   `json:"completed"`
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	client := courier.New("https://jsonplaceholder.typicode.com",
		courier.WithDefaultHeader("Accept", "application/json"),
		courier.WithLogger(logger),
		courier.WithDebug(true),
		courier.WithGenerateCurl(true),
		courier.WithRateLimit(courier.DefaultRateLimitConfig()),
		courier.WithCoalescing(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Typed GET with a per-call query override.
	res, err := courier.Get[Todo](ctx, client, "/todos/1",
		courier.WithHeader("X-Demo", "basic"),
	)
	if err != nil {
		report(err)
		os.Exit(1)
	}
	fmt.Printf("todo %d: %q (done=%v)\n", res.Value.ID, res.Value.Title, res.Value.Completed)
	fmt.Printf("signature: %s\n", res.Signature)

	// The signature is deterministic: the same call yields the same key.
	again, err := courier.Get[Todo](ctx, client, "/todos/1",
		courier.WithHeader("X-Demo", "basic"),
	)
	if err != nil {
		report(err)
		os.Exit(1)
	}
	fmt.Printf("stable signature: %v\n", res.Signature == again.Signature)

	// Typed POST.
	created, err := courier.Post[Todo](ctx, client, "/todos", Todo{
		ID:     201,
		UserID: 7,
		Title:  "write more examples",
	})
	if err != nil {
		report(err)
		os.Exit(1)
	}
	fmt.Printf("created todo %d\n", created.Value.ID)

	// A missing resource surfaces as a classified server failure, not a
	// decode error and not a panic.
	_, err = courier.Get[Todo](ctx, client, "/todos/99999999")
	report(err)
}

func report(err error) {
	if err == nil {
		return
	}
	var cerr *courier.Error
	if errors.As(err, &cerr) {
		fmt.Printf("failure kind=%s status=%d path=%q sig=%s\n",
			cerr.Kind, cerr.StatusCode, cerr.FieldPath, cerr.Signature)
		return
	}
	fmt.Println("error:", err)
}
