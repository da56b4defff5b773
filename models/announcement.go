package models

// Announcement statuses as assigned by the remote store. New submissions are
// always created as StatusPending; only approved items are guaranteed visible
// in the default listing.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// Category values accepted by the announcement board. CategoryAll is a filter
// sentinel only and is never stored on an announcement.
const (
	CategoryAll        = "all"
	CategorySale       = "sale"
	CategoryServices   = "services"
	CategoryRealEstate = "realestate"
	CategoryCommunity  = "community"
	CategoryOther      = "other"
)

// Categories lists the storable categories, in display order.
var Categories = []string{CategorySale, CategoryServices, CategoryRealEstate, CategoryCommunity, CategoryOther}

// ValidCategory reports whether c is a storable announcement category.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Announcement represents a moderated resident posting as returned by the
// remote store. Date is a display-formatted string assigned server-side.
type Announcement struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
	Date       string `json:"date"`
	Text       string `json:"text"`
	Status     string `json:"status"`
	Category   string `json:"category"`
}

// Draft holds the unsaved submission form for a new announcement. Title,
// AuthorName and Text are required; an empty Category means CategoryOther.
type Draft struct {
	Title      string `json:"title" validate:"required"`
	AuthorName string `json:"author" validate:"required"`
	Text       string `json:"text" validate:"required"`
	Category   string `json:"category"`
}

// EmptyDraft returns the zero form state used after a successful submit or an
// explicit cancel.
func EmptyDraft() Draft {
	return Draft{Category: CategoryOther}
}
