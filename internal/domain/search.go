package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Channel is the transaction mode of a search.
type Channel string

const (
	ChannelBuy  Channel = "BUY"
	ChannelRent Channel = "RENT"
)

func ParseChannel(s string) (Channel, error) {
	switch Channel(strings.ToUpper(strings.TrimSpace(s))) {
	case ChannelBuy:
		return ChannelBuy, nil
	case ChannelRent:
		return ChannelRent, nil
	default:
		return "", fmt.Errorf("buy_rent must be BUY or RENT, got %q", s)
	}
}

// Bound is a price or room limit. Zero means "no bound".
type Bound int

// Param returns the query value for b, or ok=false when the parameter
// should be left out of the request.
func (b Bound) Param() (value string, ok bool) {
	if b <= 0 {
		return "", false
	}
	return strconv.Itoa(int(b)), true
}

// SearchFilters is what the user asked for. Built once from config and
// passed by value.
type SearchFilters struct {
	Location string
	Radius   float64
	MinPrice Bound
	MaxPrice Bound
	MinRooms Bound
	MaxRooms Bound
	Channel  Channel
}

func (f SearchFilters) String() string {
	return fmt.Sprintf("%s r=%g price=%d..%d rooms=%d..%d %s",
		f.Location, f.Radius, f.MinPrice, f.MaxPrice, f.MinRooms, f.MaxRooms, f.Channel)
}
