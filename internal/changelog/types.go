package changelog

// Category is one of the four release note sections.
type Category string

const (
	CategoryBreaking Category = "breaking"
	CategoryFeatures Category = "features"
	CategoryFixes    Category = "fixes"
	CategoryOther    Category = "other"
)

// Categories returns every category in rendering order.
func Categories() []Category {
	return []Category{CategoryBreaking, CategoryFeatures, CategoryFixes, CategoryOther}
}

// Title returns the Markdown heading text for the category.
func (c Category) Title() string {
	switch c {
	case CategoryBreaking:
		return "Breaking Changes"
	case CategoryFeatures:
		return "Features"
	case CategoryFixes:
		return "Fixes"
	default:
		return "Other"
	}
}

// Notes groups cleaned commit descriptions by category. Each list keeps the
// order in which commits were encountered.
type Notes struct {
	Breaking []string `json:"breaking" yaml:"breaking"`
	Features []string `json:"features" yaml:"features"`
	Fixes    []string `json:"fixes" yaml:"fixes"`
	Other    []string `json:"other" yaml:"other"`
}

// IsEmpty returns true if no category has entries.
func (n Notes) IsEmpty() bool {
	return n.Count() == 0
}

// Count returns the total number of entries across all categories.
func (n Notes) Count() int {
	return len(n.Breaking) + len(n.Features) + len(n.Fixes) + len(n.Other)
}

// Entries returns the entries of a single category.
func (n Notes) Entries(c Category) []string {
	switch c {
	case CategoryBreaking:
		return n.Breaking
	case CategoryFeatures:
		return n.Features
	case CategoryFixes:
		return n.Fixes
	default:
		return n.Other
	}
}

// add appends text to the list for category c.
func (n *Notes) add(c Category, text string) {
	switch c {
	case CategoryBreaking:
		n.Breaking = append(n.Breaking, text)
	case CategoryFeatures:
		n.Features = append(n.Features, text)
	case CategoryFixes:
		n.Fixes = append(n.Fixes, text)
	default:
		n.Other = append(n.Other, text)
	}
}
