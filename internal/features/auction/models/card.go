package models

import "fmt"

// CardContent is the platform-neutral content of a rendered auction card.
// The notification publisher translates it into the platform's rich format.
type CardContent struct {
	Title        string
	Description  string
	Color        int
	Footer       string
	ThumbnailURL string
	ImageURL     string
	Fields       []CardField
}

// CardField is a single labeled line on a card.
type CardField struct {
	Name  string
	Value string
}

// PreviewCard renders the draft as the operator sees it in the setup channel.
func (d *Draft) PreviewCard() CardContent {
	card := CardContent{
		Title:        d.Title,
		Description:  d.Description,
		Color:        d.Color,
		Footer:       d.Footer,
		ThumbnailURL: d.ThumbnailURL,
		ImageURL:     d.ImageURL,
	}
	if card.Title == "" {
		card.Title = "Untitled item"
	}
	if card.Description == "" {
		card.Description = "No description yet"
	}
	if d.EndTime != nil {
		card.Fields = append(card.Fields, CardField{
			Name:  "Ends at",
			Value: d.EndTime.UTC().Format("2006-01-02 15:04 UTC"),
		})
	}
	card.Fields = append(card.Fields, CardField{
		Name:  "Minimum bid",
		Value: fmt.Sprintf("%d", d.MinimumBid),
	})
	return card
}

// LiveCard renders the published auction's public card with the current
// high bid and deadline.
func (a *Auction) LiveCard() CardContent {
	leader := "–"
	if a.HasBids() {
		leader = fmt.Sprintf("<@%s>", a.CurrentHighBidder)
	}

	return CardContent{
		Title:        a.ItemName,
		Description:  a.Description,
		Color:        a.Color,
		Footer:       a.Footer,
		ThumbnailURL: a.ThumbnailURL,
		ImageURL:     a.ImageURL,
		Fields: []CardField{
			{Name: "Leading bid", Value: fmt.Sprintf("%d by %s", a.CurrentHighBid, leader)},
			{Name: "Ends at", Value: a.EndTime.UTC().Format("2006-01-02 15:04 UTC")},
		},
	}
}

// WinnerAnnouncement is the text announced when an auction finalizes.
func (a *Auction) WinnerAnnouncement() string {
	if !a.HasBids() {
		return fmt.Sprintf("⏰ Auction for **%s** has ended with no bids.", a.ItemName)
	}
	return fmt.Sprintf("⏰ Auction for **%s** has ended! Winner: <@%s> at %d 💰",
		a.ItemName, a.CurrentHighBidder, a.CurrentHighBid)
}
