// Package archive is a minimal client for the archive.org search and
// metadata APIs, returning records in the canonical shapes the curation
// pipeline consumes. Source fields that may be either a single value or a
// list are normalized here, once, at the ingestion boundary.
package archive

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/vrlkz/arcurate/pkg/curation"
)

const defaultBaseURL = "https://archive.org"

// ErrNotFound is returned by GetMetadata when the item does not exist.
var ErrNotFound = errors.New("item not found")

// searchFields is what we ask the search API to return per doc.
var searchFields = []string{
	"identifier",
	"title",
	"mediatype",
	"creator",
	"publisher",
	"date",
	"description",
	"collection",
	"downloads",
	"num_favorites",
}

// Client talks to archive.org. The embedded retryablehttp client owns all
// transport-level retry and timeout policy.
type Client struct {
	BaseURL string
	http    *retryablehttp.Client
}

// NewClient builds a client with sane retry defaults and silenced
// per-request logging.
func NewClient() *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil
	return &Client{
		BaseURL: defaultBaseURL,
		http:    retryClient,
	}
}

// Search queries the advancedsearch API for text within one mediatype,
// sorted by downloads descending so the most popular items come first.
// Fewer than maxResults rows may come back.
func (c *Client) Search(ctx context.Context, text, mediatype string, maxResults int) ([]curation.Hit, error) {
	if maxResults <= 0 {
		maxResults = 50
	}

	params := url.Values{}
	params.Set("q", BuildQuery(text, []string{mediatype}))
	for _, f := range searchFields {
		params.Add("fl[]", f)
	}
	params.Set("rows", strconv.Itoa(maxResults))
	params.Set("page", "1")
	params.Add("sort[]", "downloads desc")
	params.Set("output", "json")

	body, err := c.get(ctx, c.BaseURL+"/advancedsearch.php?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", text, err)
	}

	docs := gjson.Get(body, "response.docs")
	if !docs.Exists() {
		return nil, fmt.Errorf("search %q: malformed response", text)
	}

	var hits []curation.Hit
	docs.ForEach(func(_, doc gjson.Result) bool {
		if len(hits) >= maxResults {
			return false
		}
		hit := curation.Hit{
			Identifier:  doc.Get("identifier").String(),
			Title:       flexJoin(doc.Get("title")),
			Mediatype:   doc.Get("mediatype").String(),
			Creator:     flexJoin(doc.Get("creator")),
			Publisher:   flexJoin(doc.Get("publisher")),
			Description: flexJoin(doc.Get("description")),
			Collections: flexStrings(doc.Get("collection")),
			Downloads:   int(doc.Get("downloads").Int()),
			Favorites:   int(doc.Get("num_favorites").Int()),
		}
		if hit.Title == "" {
			hit.Title = "Unknown"
		}
		hits = append(hits, hit)
		return true
	})
	return hits, nil
}

// GetMetadata fetches full metadata for one item. File listings are only
// parsed when includeFiles is set; without them the page count comes from
// metadata fields alone.
func (c *Client) GetMetadata(ctx context.Context, identifier string, includeFiles bool) (*curation.Enrichment, error) {
	body, err := c.get(ctx, c.BaseURL+"/metadata/"+url.PathEscape(identifier))
	if err != nil {
		return nil, fmt.Errorf("metadata %s: %w", identifier, err)
	}

	meta := gjson.Get(body, "metadata")
	if !meta.Exists() {
		// The metadata API answers "{}" for unknown identifiers.
		return nil, fmt.Errorf("metadata %s: %w", identifier, ErrNotFound)
	}

	enrichment := &curation.Enrichment{
		PageCount: pageCountFromMetadata(meta),
	}

	if includeFiles {
		enrichment.HasFiles = true
		gjson.Get(body, "files").ForEach(func(_, f gjson.Result) bool {
			enrichment.Files = append(enrichment.Files, curation.FileInfo{
				Name:   f.Get("name").String(),
				Format: f.Get("format").String(),
				Size:   parseInt64(f.Get("size")),
			})
			return true
		})
		if enrichment.PageCount == nil {
			enrichment.PageCount = pageCountFromFiles(enrichment.Files)
		}
	}

	return enrichment, nil
}

// ItemURL returns the canonical details URL for an identifier.
func (c *Client) ItemURL(identifier string) string {
	return c.BaseURL + "/details/" + identifier
}

func (c *Client) get(ctx context.Context, rawURL string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "arcurate (https://github.com/vrlkz/arcurate)")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := readBody(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

// pageCountFromMetadata checks the usual page-count fields. Values arrive
// as numbers or numeric strings depending on the item.
func pageCountFromMetadata(meta gjson.Result) *int {
	for _, field := range []string{"imagecount", "pages", "page_count", "num_pages"} {
		v := meta.Get(field)
		if !v.Exists() {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v.String()))
		if err != nil {
			continue
		}
		return &n
	}
	return nil
}

// pageCountFromFiles counts image files, which usually map one-to-one to
// pages in scanned material.
func pageCountFromFiles(files []curation.FileInfo) *int {
	count := 0
	for _, f := range files {
		name := strings.ToLower(f.Name)
		for _, ext := range []string{".jp2", ".jpg", ".jpeg", ".png", ".tif", ".tiff"} {
			if strings.HasSuffix(name, ext) {
				count++
				break
			}
		}
	}
	if count == 0 {
		return nil
	}
	return &count
}

// flexJoin normalizes a string-or-list JSON field into one string, joining
// list members with ", ".
func flexJoin(v gjson.Result) string {
	if !v.Exists() {
		return ""
	}
	if v.IsArray() {
		var parts []string
		v.ForEach(func(_, item gjson.Result) bool {
			if s := item.String(); s != "" {
				parts = append(parts, s)
			}
			return true
		})
		return strings.Join(parts, ", ")
	}
	return v.String()
}

// flexStrings normalizes a string-or-list JSON field into a string slice.
func flexStrings(v gjson.Result) []string {
	if !v.Exists() {
		return nil
	}
	if v.IsArray() {
		var out []string
		v.ForEach(func(_, item gjson.Result) bool {
			if s := item.String(); s != "" {
				out = append(out, s)
			}
			return true
		})
		return out
	}
	if s := v.String(); s != "" {
		return []string{s}
	}
	return nil
}

func parseInt64(v gjson.Result) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
