package main

// OrderItem is one line of an order submission.
type OrderItem struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

// OrderRequest is the payload forwarded to the backend when placing
// an order.
type OrderRequest struct {
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"totalAmount"`
	ShippingAddress string      `json:"shippingAddress"`
	CustomerName    string      `json:"customerName"`
	CustomerEmail   string      `json:"customerEmail"`
	CustomerPhone   string      `json:"customerPhone,omitempty"`
	Notes           string      `json:"notes,omitempty"`
}
