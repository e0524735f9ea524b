package catalog

import (
	"fmt"
	"strings"
)

// MaxIDLength is the maximum item identifier length.
const MaxIDLength = 256

// Attributes holds the optional structured fields of a catalog item.
type Attributes struct {
	Name          string
	URL           string
	TestTypes     []string
	Duration      int // minutes, 0 when unknown
	RemoteSupport bool
	AdaptiveIRT   bool
}

// Item is an assessment in the catalog (immutable value object).
type Item struct {
	id            string
	name          string
	url           string
	description   string
	testTypes     []string
	duration      int
	remoteSupport bool
	adaptiveIRT   bool
}

// New validates and creates an Item.
// ID: non-blank, max 256 chars. Description may be empty; such an item gets a zero vector.
func New(id, description string, attrs Attributes) (Item, error) {
	if strings.TrimSpace(id) == "" {
		return Item{}, fmt.Errorf("item ID is required")
	}
	if len(id) > MaxIDLength {
		return Item{}, fmt.Errorf("item ID too long (max %d)", MaxIDLength)
	}
	if attrs.Duration < 0 {
		return Item{}, fmt.Errorf("item %q: duration must not be negative", id)
	}

	return Item{
		id:            id,
		name:          attrs.Name,
		url:           attrs.URL,
		description:   description,
		testTypes:     cloneStrings(attrs.TestTypes),
		duration:      attrs.Duration,
		remoteSupport: attrs.RemoteSupport,
		adaptiveIRT:   attrs.AdaptiveIRT,
	}, nil
}

// ID returns the item identifier.
func (i *Item) ID() string { return i.id }

// Name returns the display name.
func (i *Item) Name() string { return i.name }

// URL returns the product page link.
func (i *Item) URL() string { return i.url }

// Description returns the free-text description.
func (i *Item) Description() string { return i.description }

// TestTypes returns a copy of the test type labels.
func (i *Item) TestTypes() []string { return cloneStrings(i.testTypes) }

// Duration returns the assessment length in minutes.
func (i *Item) Duration() int { return i.duration }

// RemoteSupport reports whether the assessment can be taken remotely.
func (i *Item) RemoteSupport() bool { return i.remoteSupport }

// AdaptiveIRT reports whether the assessment is adaptive.
func (i *Item) AdaptiveIRT() bool { return i.adaptiveIRT }

// Text returns the indexable text: name, description and test types.
func (i *Item) Text() string {
	parts := make([]string, 0, 2+len(i.testTypes))
	if i.name != "" {
		parts = append(parts, i.name)
	}
	if i.description != "" {
		parts = append(parts, i.description)
	}
	parts = append(parts, i.testTypes...)
	return strings.Join(parts, " ")
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
