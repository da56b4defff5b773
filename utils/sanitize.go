package utils

import "github.com/microcosm-cc/bluemonday"

// Announcements are plain text, so the strict policy strips all markup
// rather than allowing UGC HTML through.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips HTML from user submitted content to prevent XSS.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
