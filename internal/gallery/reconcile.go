package gallery

import (
	"fmt"
	"strings"

	"github.com/five82/easel/internal/imagesapi"
)

// Item is an image ready for display.
type Item struct {
	imagesapi.Image
	Liked        bool
	DisplayLikes int
}

// SearchPolicy decides whether active search results get the local like
// adjustment.
type SearchPolicy int

const (
	// SearchReconciled adjusts search results exactly like the full list.
	SearchReconciled SearchPolicy = iota
	// SearchVerbatim renders search results with their server counts and no
	// liked flag.
	SearchVerbatim
)

// ParseSearchPolicy maps a config value to a policy. Blank means reconciled.
func ParseSearchPolicy(value string) (SearchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "reconciled", "reconcile":
		return SearchReconciled, nil
	case "verbatim", "bypass":
		return SearchVerbatim, nil
	default:
		return SearchReconciled, fmt.Errorf("unknown search policy %q", value)
	}
}

func (p SearchPolicy) String() string {
	if p == SearchVerbatim {
		return "verbatim"
	}
	return "reconciled"
}

// Reconcile produces the list to render. results == nil means no search is
// active and images is the base list; a non-nil results slice (even empty)
// replaces it. liked is read-only.
func Reconcile(images []imagesapi.Image, liked map[string]struct{}, results []imagesapi.Image, policy SearchPolicy) []Item {
	base := images
	adjust := true
	if results != nil {
		base = results
		adjust = policy == SearchReconciled
	}

	out := make([]Item, len(base))
	for i, img := range base {
		item := Item{Image: img, DisplayLikes: img.BaseLikes()}
		if adjust {
			if _, ok := liked[img.ID]; ok {
				item.Liked = true
				item.DisplayLikes++
			}
		}
		out[i] = item
	}
	return out
}
