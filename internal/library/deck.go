package library

import (
	"fmt"
	"math/rand/v2"
)

// Deck is a shuffled, wrapping sequence of image paths.
type Deck struct {
	images []string
	index  int
}

// NewDeck shuffles a copy of images with rng. A nil rng uses the global source.
func NewDeck(images []string, rng *rand.Rand) *Deck {
	d := &Deck{images: append([]string(nil), images...)}
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(d.images), func(i, j int) {
		d.images[i], d.images[j] = d.images[j], d.images[i]
	})
	return d
}

func (d *Deck) Len() int {
	if d == nil {
		return 0
	}
	return len(d.images)
}

// Index is the zero-based position of the current image.
func (d *Deck) Index() int {
	if d == nil {
		return 0
	}
	return d.index
}

func (d *Deck) Current() (string, bool) {
	if d.Len() == 0 {
		return "", false
	}
	return d.images[d.index], true
}

// Next advances to the following image, wrapping to the first.
func (d *Deck) Next() (string, bool) {
	if d.Len() == 0 {
		return "", false
	}
	d.index = (d.index + 1) % len(d.images)
	return d.images[d.index], true
}

// Images returns the deck order.
func (d *Deck) Images() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.images...)
}

// Counter renders "3 / 12", or "0 / 0" for an empty deck.
func (d *Deck) Counter() string {
	if d.Len() == 0 {
		return "0 / 0"
	}
	return fmt.Sprintf("%d / %d", d.index+1, len(d.images))
}
