package models

// InterestItem is one line of an interest inquiry: a selected product and
// the requested quantity.
type InterestItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}
