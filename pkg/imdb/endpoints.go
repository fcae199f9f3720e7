package imdb

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// BaseURL is the default IMDb origin
	BaseURL = "http://www.imdb.com"

	// ExportEndpoint serves a user's ratings list as CSV
	ExportEndpoint = "/list/export"

	// RatingsListID selects the ratings list in the export endpoint
	RatingsListID = "ratings"
)

// GetExportURL constructs the ratings export URL for an IMDb user id
func GetExportURL(baseURL, userID string) string {
	params := url.Values{}
	params.Set("list_id", RatingsListID)
	params.Set("author_id", userID)

	return fmt.Sprintf("%s%s?%s", strings.TrimRight(baseURL, "/"), ExportEndpoint, params.Encode())
}
