// Package store provides implementations of the orders.Store interface over
// the hosted realtime database and an in-memory fake for development.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"

	"elamli.org/elamli-admin/internal/admin/orders"
)

const ordersPath = "orders"

// RTDBStore reads and mutates the order collection in the Firebase Realtime
// Database.
type RTDBStore struct {
	client *db.Client
}

// NewRTDBStore obtains a database client from the Firebase app. The database
// URL must be configured on the app.
func NewRTDBStore(ctx context.Context, app *firebase.App) (*RTDBStore, error) {
	if app == nil {
		return nil, fmt.Errorf("store: firebase app is required")
	}
	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: database client: %w", err)
	}
	return &RTDBStore{client: client}, nil
}

// NewRTDBStoreWithClient wraps an existing database client.
func NewRTDBStoreWithClient(client *db.Client) *RTDBStore {
	if client == nil {
		panic("store: db client is required")
	}
	return &RTDBStore{client: client}
}

// FetchOrders reads the whole orders path. The payload is fetched as raw
// JSON and decoded by the orders package so the store's key order survives.
func (s *RTDBStore) FetchOrders(ctx context.Context) (orders.Snapshot, error) {
	var raw json.RawMessage
	if err := s.client.NewRef(ordersPath).Get(ctx, &raw); err != nil {
		return nil, fmt.Errorf("store: read %s: %w", ordersPath, err)
	}
	snap, err := orders.DecodeSnapshot(raw)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// UpdateOrderStatus writes the status field of a single order.
func (s *RTDBStore) UpdateOrderStatus(ctx context.Context, orderID string, status orders.Status) error {
	ref := s.client.NewRef(ordersPath).Child(orderID)
	if err := ref.Update(ctx, map[string]interface{}{"status": string(status)}); err != nil {
		return fmt.Errorf("store: update %s/%s: %w", ordersPath, orderID, err)
	}
	return nil
}
