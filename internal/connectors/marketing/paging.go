package marketing

import (
	"net/url"
	"strconv"
)

// DefaultCount is the page size of listing helpers when none is given.
const DefaultCount = 10

// pageQuery builds the start/count/offset parameters of listing endpoints.
// offset is page*count, so page 0 is the first page.
func pageQuery(page, count int) url.Values {
	if count <= 0 {
		count = DefaultCount
	}
	if page < 0 {
		page = 0
	}
	q := url.Values{}
	q.Set("start", strconv.Itoa(page))
	q.Set("count", strconv.Itoa(count))
	q.Set("offset", strconv.Itoa(page*count))
	return q
}
