package models

// NewsItem is a district news entry shown on the portal's main tab.
type NewsItem struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Excerpt  string `json:"excerpt"`
	Image    string `json:"image,omitempty"`
}

// EventItem is an entry on the events calendar tab.
type EventItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// Place is an infrastructure directory entry (shops, kindergartens, etc).
type Place struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}
