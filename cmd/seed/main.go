// Package main seeds demo products for local development.
package main

import (
	"context"
	"fmt"
	"os"

	"tillpoint/internal/config"
	"tillpoint/internal/core/id"
	"tillpoint/internal/infrastructure/storage/postgres"
)

type seedProduct struct {
	name   string
	price  int64
	onHand int64
}

var products = []seedProduct{
	{"Americano", 18000, 100},
	{"Cappuccino", 24000, 100},
	{"Croissant", 15000, 40},
	{"Mineral Water", 5000, 200},
	{"Chocolate Muffin", 17500, 30},
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		fmt.Printf("connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	for _, p := range products {
		_, err := pool.Exec(ctx,
			`INSERT INTO products (id, name, price, is_active, on_hand) VALUES ($1, $2, $3, true, $4)
			 ON CONFLICT DO NOTHING`,
			id.New(), p.name, p.price, p.onHand,
		)
		if err != nil {
			fmt.Printf("seed %s: %v\n", p.name, err)
			os.Exit(1)
		}
		fmt.Printf("seeded %s (price %d, on hand %d)\n", p.name, p.price, p.onHand)
	}
}
