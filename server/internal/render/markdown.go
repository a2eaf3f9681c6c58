package render

import (
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

// Markdown converts a post body to safe HTML for API responses
func Markdown(markdown string) string {
	// Convert markdown to HTML
	unsafe := blackfriday.Run([]byte(markdown))

	// Sanitize the HTML to prevent XSS
	policy := bluemonday.UGCPolicy()
	safe := policy.SanitizeBytes(unsafe)

	return string(safe)
}
