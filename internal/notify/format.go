package notify

import (
	"fmt"
	"strings"

	"flatwatch/internal/delta"
	"flatwatch/internal/domain"
	"flatwatch/internal/rightmove"
)

const headline = "A new flat has been found!"

type Message struct {
	ListingID domain.ListingID
	URL       string
	Text      string
}

// FormatMessages builds one message for each of the first limit new listings
// (ascending id). details may be nil or miss ids; the summary line is then
// left out.
func FormatMessages(ids domain.ListingSet, details map[domain.ListingID]domain.Listing, limit int) []Message {
	selected := delta.Select(ids, limit)
	out := make([]Message, 0, len(selected))
	for _, id := range selected {
		u := rightmove.DetailURL(id)

		var b strings.Builder
		b.WriteString(headline)
		b.WriteString("\n\n")
		if line := summary(details[id]); line != "" {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString(u)
		b.WriteString("\n")

		out = append(out, Message{ListingID: id, URL: u, Text: b.String()})
	}
	return out
}

func summary(l domain.Listing) string {
	var parts []string
	if l.Address != "" {
		parts = append(parts, l.Address)
	}
	if l.Price != "" {
		parts = append(parts, l.Price)
	}
	switch {
	case l.Bedrooms == 1:
		parts = append(parts, "1 bed")
	case l.Bedrooms > 1:
		parts = append(parts, fmt.Sprintf("%d beds", l.Bedrooms))
	}
	return strings.Join(parts, " · ")
}
