package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OrderID identifies the order an amount is attributed to. An order-level ID
// carries only the order number; an item-level ID additionally carries the
// order detail ID, and the two never compare equal.
type OrderID struct {
	orderNumber   string
	orderDetailID int64
	itemLevel     bool
}

// NewOrderID creates an order-level ID.
func NewOrderID(orderNumber string) (OrderID, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return OrderID{}, ErrBlankOrderNumber
	}
	return OrderID{orderNumber: orderNumber}, nil
}

// NewItemOrderID creates an item-level ID scoped to one order detail.
func NewItemOrderID(orderNumber string, orderDetailID int64) (OrderID, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return OrderID{}, ErrBlankOrderNumber
	}
	return OrderID{orderNumber: orderNumber, orderDetailID: orderDetailID, itemLevel: true}, nil
}

func (o OrderID) OrderNumber() string {
	return o.orderNumber
}

// OrderDetailID returns the detail ID and whether this is an item-level ID.
func (o OrderID) OrderDetailID() (int64, bool) {
	return o.orderDetailID, o.itemLevel
}

func (o OrderID) IsItemLevel() bool {
	return o.itemLevel
}

func (o OrderID) IsZero() bool {
	return o == OrderID{}
}

func (o OrderID) String() string {
	if o.itemLevel {
		return fmt.Sprintf("%s#%d", o.orderNumber, o.orderDetailID)
	}
	return o.orderNumber
}

func (o OrderID) MarshalJSON() ([]byte, error) {
	v := struct {
		OrderNumber   string `json:"order_number"`
		OrderDetailID *int64 `json:"order_detail_id,omitempty"`
	}{OrderNumber: o.orderNumber}
	if o.itemLevel {
		v.OrderDetailID = &o.orderDetailID
	}
	return json.Marshal(v)
}
