package commute

import (
	"fmt"
	"net/url"
)

const mapDirTemplate = "https://www.google.com.tw/maps/dir/%s/%s"

// MapLink builds the outbound mapping deep link for a route. It is produced
// for every leg, including the ones whose duration query failed or was
// never attempted.
func MapLink(origin, destination string) string {
	return fmt.Sprintf(mapDirTemplate, url.PathEscape(origin), url.PathEscape(destination))
}
