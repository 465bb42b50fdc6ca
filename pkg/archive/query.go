package archive

import (
	"io"
	"strings"
)

// BuildQuery composes an archive.org search query: the search text plus a
// mediatype filter.
func BuildQuery(text string, mediatypes []string) string {
	query := "(" + text + ")"
	switch len(mediatypes) {
	case 0:
		return query
	case 1:
		return query + " AND mediatype:" + mediatypes[0]
	default:
		filters := make([]string, len(mediatypes))
		for i, mt := range mediatypes {
			filters[i] = "mediatype:" + mt
		}
		return query + " AND (" + strings.Join(filters, " OR ") + ")"
	}
}

func readBody(r io.Reader) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
