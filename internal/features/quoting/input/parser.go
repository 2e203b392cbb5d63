// Package input turns the external quote request formats into address groups.
//
// Three shapes are accepted and all normalize to the same []domain.AddressGroup:
//
//   - a single string of entries "<address> | <LxWxD>" separated by ';' or newlines
//   - parallel address and size lists, as JSON arrays or ';'/newline delimited strings
//   - structured destinations with per-address item arrays
//
// Any malformed address or size rejects the whole input.
package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"shipdesk/internal/features/quoting/domain"
)

var (
	// ErrInvalidInput is returned when the request shape itself is malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidAddress is returned when an address has no recognizable state and postal code.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidSize is returned when a size token is not "LxWxD".
	ErrInvalidSize = errors.New("invalid size")
)

// Mode selects how strictly an address is matched.
type Mode int

const (
	// ModeQuote requires "ST 12345[-6789]" to end the address.
	ModeQuote Mode = iota
	// ModeShip finds "ST 12345[-6789]" anywhere after a comma, tolerating trailing text.
	ModeShip
)

const defaultCountry = "US"

var (
	quoteAddressPattern = regexp.MustCompile(`,\s*([A-Za-z]{2})\s*,?\s+(\d{5}(?:-\d{4})?)\s*$`)
	shipAddressPattern  = regexp.MustCompile(`,\s*([A-Za-z]{2})\s*,?\s+(\d{5}(?:-\d{4})?)\b`)
	sizePattern         = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?|\.\d+)\s*[xX]\s*(\d+(?:\.\d+)?|\.\d+)\s*[xX]\s*(\d+(?:\.\d+)?|\.\d+)\s*$`)
	listSeparator       = regexp.MustCompile(`[;\n]`)
)

// ParseAddress normalizes raw and extracts its state and postal code.
func ParseAddress(raw string, mode Mode) (domain.Address, error) {
	normalized := normalizeAddress(raw)
	if normalized == "" {
		return domain.Address{}, fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}

	pattern := quoteAddressPattern
	if mode == ModeShip {
		pattern = shipAddressPattern
	}

	m := pattern.FindStringSubmatch(normalized)
	if m == nil {
		return domain.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, raw)
	}

	return domain.Address{
		Raw: normalized,
		Region: domain.Region{
			State:      strings.ToUpper(m[1]),
			PostalCode: m[2],
			Country:    defaultCountry,
		},
	}, nil
}

// ParseSize parses an "LxWxD" token into an Item.
func ParseSize(token string) (domain.Item, error) {
	m := sizePattern.FindStringSubmatch(token)
	if m == nil {
		return domain.Item{}, fmt.Errorf("%w: %q", ErrInvalidSize, token)
	}

	dims := make([]float64, 3)
	for i := range dims {
		v, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return domain.Item{}, fmt.Errorf("%w: %q", ErrInvalidSize, token)
		}
		dims[i] = v
	}

	return domain.Item{Length: dims[0], Width: dims[1], Depth: dims[2]}, nil
}

// ParseItemString parses "<address> | <LxWxD>" entries separated by ';' or newlines.
func ParseItemString(s string, mode Mode) ([]domain.AddressGroup, error) {
	entries := splitList(s)
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrInvalidInput)
	}

	b := newGroupBuilder()
	for _, entry := range entries {
		sep := strings.LastIndex(entry, "|")
		if sep < 0 {
			return nil, fmt.Errorf("%w: entry %q has no '|' between address and size", ErrInvalidInput, entry)
		}
		if err := b.add(entry[:sep], entry[sep+1:], mode); err != nil {
			return nil, err
		}
	}

	return b.groups(), nil
}

// ParseParallel pairs addresses[i] with sizes[i]. Each side may be a JSON
// array of strings or one JSON string delimited by ';' or newlines.
func ParseParallel(addresses, sizes json.RawMessage, mode Mode) ([]domain.AddressGroup, error) {
	addrList, err := decodeList(addresses, "addresses")
	if err != nil {
		return nil, err
	}
	sizeList, err := decodeList(sizes, "sizes")
	if err != nil {
		return nil, err
	}

	if len(addrList) == 0 {
		return nil, fmt.Errorf("%w: no addresses", ErrInvalidInput)
	}
	if len(addrList) != len(sizeList) {
		return nil, fmt.Errorf("%w: %d addresses but %d sizes", ErrInvalidInput, len(addrList), len(sizeList))
	}

	b := newGroupBuilder()
	for i := range addrList {
		if err := b.add(addrList[i], sizeList[i], mode); err != nil {
			return nil, err
		}
	}

	return b.groups(), nil
}

// Destination is the structured per-address input shape.
type Destination struct {
	Address string            `json:"address"`
	Items   []DestinationItem `json:"items"`
}

// DestinationItem is either numeric dimensions or a "LxWxD" size token.
type DestinationItem struct {
	Length *float64 `json:"length,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Depth  *float64 `json:"depth,omitempty"`
	Size   string   `json:"size,omitempty"`
}

func (d DestinationItem) toItem() (domain.Item, error) {
	if d.Size != "" {
		return ParseSize(d.Size)
	}
	if d.Length == nil || d.Width == nil || d.Depth == nil {
		return domain.Item{}, fmt.Errorf("%w: item needs length, width and depth or a size", ErrInvalidSize)
	}
	if *d.Length < 0 || *d.Width < 0 || *d.Depth < 0 {
		return domain.Item{}, fmt.Errorf("%w: negative dimension %vx%vx%v", ErrInvalidSize, *d.Length, *d.Width, *d.Depth)
	}
	return domain.Item{Length: *d.Length, Width: *d.Width, Depth: *d.Depth}, nil
}

// ParseStructured normalizes structured destinations. Destinations repeating
// an address are merged into one group.
func ParseStructured(destinations []Destination, mode Mode) ([]domain.AddressGroup, error) {
	if len(destinations) == 0 {
		return nil, fmt.Errorf("%w: no destinations", ErrInvalidInput)
	}

	b := newGroupBuilder()
	for _, d := range destinations {
		if len(d.Items) == 0 {
			return nil, fmt.Errorf("%w: destination %q has no items", ErrInvalidInput, d.Address)
		}
		addr, err := ParseAddress(d.Address, mode)
		if err != nil {
			return nil, err
		}
		for _, di := range d.Items {
			item, err := di.toItem()
			if err != nil {
				return nil, err
			}
			b.append(addr, item)
		}
	}

	return b.groups(), nil
}

// groupBuilder groups items by normalized address, keeping first-seen order.
type groupBuilder struct {
	index map[string]int
	list  []domain.AddressGroup
}

func newGroupBuilder() *groupBuilder {
	return &groupBuilder{index: make(map[string]int)}
}

func (b *groupBuilder) add(rawAddress, size string, mode Mode) error {
	addr, err := ParseAddress(rawAddress, mode)
	if err != nil {
		return err
	}
	item, err := ParseSize(size)
	if err != nil {
		return err
	}
	b.append(addr, item)
	return nil
}

func (b *groupBuilder) append(addr domain.Address, item domain.Item) {
	key := strings.ToUpper(addr.Raw)
	i, ok := b.index[key]
	if !ok {
		i = len(b.list)
		b.index[key] = i
		b.list = append(b.list, domain.AddressGroup{Address: addr})
	}
	b.list[i].Items = append(b.list[i].Items, item)
}

func (b *groupBuilder) groups() []domain.AddressGroup {
	return b.list
}

func normalizeAddress(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

func splitList(s string) []string {
	var out []string
	for _, part := range listSeparator.Split(s, -1) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func decodeList(raw json.RawMessage, field string) ([]string, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %s must be a string or an array of strings", ErrInvalidInput, field)
	}
	return splitList(s), nil
}
