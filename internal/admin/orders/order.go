package orders

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Status represents the fulfillment state of an order.
type Status string

const (
	// StatusPending indicates the order has been placed but not picked up yet.
	StatusPending Status = "pending"
	// StatusProcessing indicates the order is being prepared.
	StatusProcessing Status = "processing"
	// StatusShipped indicates the order has been handed to a carrier.
	StatusShipped Status = "shipped"
	// StatusDelivered indicates the order reached the customer.
	StatusDelivered Status = "delivered"
	// StatusCancelled indicates the order was cancelled.
	StatusCancelled Status = "cancelled"
)

// AllStatuses lists the order statuses in their canonical display order.
var AllStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// ValidStatus reports whether value is one of the five known statuses.
func ValidStatus(value Status) bool {
	switch value {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// StatusLabel returns a human readable label for a status value.
func StatusLabel(status Status) string {
	switch status {
	case StatusPending:
		return "Pending"
	case StatusProcessing:
		return "Processing"
	case StatusShipped:
		return "Shipped"
	case StatusDelivered:
		return "Delivered"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(status)
	}
}

// StatusTone maps a status onto a semantic badge tone.
func StatusTone(status Status) string {
	switch status {
	case StatusPending:
		return "warning"
	case StatusProcessing:
		return "info"
	case StatusShipped:
		return "info"
	case StatusDelivered:
		return "success"
	case StatusCancelled:
		return "muted"
	default:
		return "muted"
	}
}

// Price is a decimal amount that tolerates the store's loose typing: the
// value may arrive as a JSON number, a quoted number, null, or garbage.
// Anything that does not parse as a finite number decodes to 0.
type Price float64

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = 0
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			*p = 0
			return nil
		}
		value, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*p = 0
			return nil
		}
		*p = Price(value)
		return nil
	}
	var value float64
	if err := json.Unmarshal(trimmed, &value); err != nil {
		*p = 0
		return nil
	}
	*p = Price(value)
	return nil
}

// Order is a customer purchase record as held by the admin.
//
// After normalization every field is populated: Status is always one of the
// five known values, ProductPrice is a finite number, and CreatedAt is 0 when
// the store never recorded a timestamp.
type Order struct {
	ID           string
	ProductID    string
	ProductName  string
	ProductPrice float64
	ImageURL     string
	FullName     string
	Phone        string
	Address      string
	City         string
	Notes        string
	Status       Status
	CreatedAt    int64 // epoch milliseconds; 0 when absent
}

// CreatedTime converts the epoch-millisecond timestamp into a time.Time.
// The zero value is returned for undated orders.
func (o Order) CreatedTime() time.Time {
	if o.CreatedAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(o.CreatedAt)
}

// Record is the raw, possibly partial order payload stored under one key.
type Record struct {
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	ProductPrice Price  `json:"productPrice"`
	ImageURL     string `json:"imageUrl"`
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Notes        string `json:"notes"`
	Status       string `json:"status"`
	CreatedAt    int64  `json:"createdAt"`
}

// Normalize converts a raw record into a fully populated Order. Missing
// fields receive their documented defaults here so every downstream consumer
// sees the same shape; no record is ever dropped or rejected.
func Normalize(id string, rec Record) Order {
	status := Status(rec.Status)
	if !ValidStatus(status) {
		status = StatusPending
	}
	return Order{
		ID:           id,
		ProductID:    rec.ProductID,
		ProductName:  rec.ProductName,
		ProductPrice: float64(rec.ProductPrice),
		ImageURL:     rec.ImageURL,
		FullName:     rec.FullName,
		Phone:        rec.Phone,
		Address:      rec.Address,
		City:         rec.City,
		Notes:        rec.Notes,
		Status:       status,
		CreatedAt:    rec.CreatedAt,
	}
}
