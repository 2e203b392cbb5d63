package domain

// Region is the rating-relevant part of an address.
type Region struct {
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Address is a normalized destination address.
type Address struct {
	// Raw is the address line with whitespace normalized.
	Raw string `json:"address"`
	Region
}

// AddressGroup is one destination with every item bound for it.
type AddressGroup struct {
	Address Address `json:"address"`
	Items   []Item  `json:"items"`
}
