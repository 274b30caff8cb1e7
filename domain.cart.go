package main

// CartItem is one book/quantity pair of a server-persisted cart. The
// price snapshot, when the backend returns one, is the price captured
// at add-time.
type CartItem struct {
	BookID        string   `json:"bookId"`
	Quantity      int      `json:"quantity"`
	PriceSnapshot *float64 `json:"priceSnapshot,omitempty"`
}

// Cart mirrors the backend cart of the authenticated user.
type Cart struct {
	ID    string     `json:"id,omitempty"`
	Items []CartItem `json:"items"`
}

// cartPayload is the loose wire shape of a cart response.
type cartPayload struct {
	ID    string `json:"id"`
	Items []struct {
		BookID        string      `json:"bookId"`
		Quantity      FlexNumber  `json:"quantity"`
		PriceSnapshot *FlexNumber `json:"priceSnapshot"`
	} `json:"items"`
}

// toCart converts the wire shape into the typed cart.
func (p cartPayload) toCart() Cart {
	cart := Cart{ID: p.ID, Items: make([]CartItem, 0, len(p.Items))}
	for _, item := range p.Items {
		ci := CartItem{BookID: item.BookID, Quantity: int(item.Quantity)}
		if item.PriceSnapshot != nil {
			v := float64(*item.PriceSnapshot)
			ci.PriceSnapshot = &v
		}
		cart.Items = append(cart.Items, ci)
	}
	return cart
}
