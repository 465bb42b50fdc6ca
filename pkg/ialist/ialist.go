// Package ialist adds curated items to archive.org simplelists via the
// metadata write API.
package ialist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/vrlkz/arcurate/pkg/curation"
)

const defaultBaseURL = "https://archive.org"

// ListConfig identifies the target list and carries the S3-style keys that
// authorize writes to it.
type ListConfig struct {
	Parent      string // e.g. "@username"
	Name        string // e.g. "culture-library"
	AccessKey   string
	SecretKey   string
	Description string
}

// Validate reports which required fields are missing.
func (c ListConfig) Validate() error {
	var missing []string
	if c.AccessKey == "" {
		missing = append(missing, "ia.accesskey")
	}
	if c.SecretKey == "" {
		missing = append(missing, "ia.secretkey")
	}
	if c.Parent == "" {
		missing = append(missing, "list parent")
	}
	if c.Name == "" {
		missing = append(missing, "list name")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing list configuration: %v", missing)
	}
	return nil
}

// URL returns the public page of the list.
func (c ListConfig) URL() string {
	return defaultBaseURL + "/details/" + c.Parent + "/lists/" + c.Name
}

// Client performs list write-backs and membership lookups.
type Client struct {
	BaseURL string
	http    *retryablehttp.Client
}

func NewClient() *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil
	return &Client{
		BaseURL: defaultBaseURL,
		http:    retryClient,
	}
}

// AddToList appends one item to the list with optional notes. The API is a
// JSON-patch against the item's metadata targeting simplelists.
func (c *Client) AddToList(ctx context.Context, identifier string, cfg ListConfig, notes map[string]interface{}) error {
	if notes == nil {
		notes = map[string]interface{}{}
	}
	patch, err := json.Marshal(map[string]interface{}{
		"op":     "set",
		"parent": cfg.Parent,
		"list":   cfg.Name,
		"notes":  notes,
	})
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("-target", "simplelists")
	form.Set("-patch", string(patch))

	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", c.BaseURL+"/metadata/"+url.PathEscape(identifier), []byte(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "LOW "+cfg.AccessKey+":"+cfg.SecretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := readBody(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("add %s: HTTP %d: %s", identifier, resp.StatusCode, body)
	}
	if !gjson.Get(body, "success").Bool() {
		return fmt.Errorf("add %s: API refused: %s", identifier, body)
	}
	return nil
}

// AddOptions tunes a batch AddItems call.
type AddOptions struct {
	RateLimit time.Duration // pause between API calls; defaults to 1s
	DryRun    bool
	Log       curation.Logger // optional
}

// AddItems appends a batch of items, one API call each, annotating every
// list entry with the search term and score that selected it. Returns the
// items actually added and the failure count; failures do not stop the
// batch.
func (c *Client) AddItems(ctx context.Context, items []curation.Item, cfg ListConfig, opts AddOptions) (added []curation.Item, failed int) {
	log := opts.Log
	if log == nil {
		log = nopLogger{}
	}
	rateLimit := opts.RateLimit
	if rateLimit <= 0 {
		rateLimit = time.Second
	}

	for i, item := range items {
		if ctx.Err() != nil {
			return added, failed
		}
		if opts.DryRun {
			log.Infof("DRY RUN: would add %s", item.Identifier)
			added = append(added, item)
			continue
		}

		notes := map[string]interface{}{
			"search_term":      item.SearchTerm,
			"confidence_score": item.Confidence.Score,
			"added_by":         "arcurate",
		}
		if err := c.AddToList(ctx, item.Identifier, cfg, notes); err != nil {
			log.Warnf("Failed to add %s: %v", item.Identifier, err)
			failed++
		} else {
			log.Infof("Added %s", item.Identifier)
			added = append(added, item)
		}

		if i < len(items)-1 {
			time.Sleep(rateLimit)
		}
	}
	return added, failed
}

// ExistingItems returns the identifiers already present in the list, used
// to skip re-adds. Doubles as a cheap credentials/connectivity check.
func (c *Client) ExistingItems(ctx context.Context, cfg ListConfig) (map[string]bool, error) {
	if cfg.Parent == "" || cfg.Name == "" {
		return nil, errors.New("list parent and name are required")
	}

	params := url.Values{}
	params.Set("q", "simplelists__"+cfg.Name+":"+cfg.Parent)
	params.Add("fl[]", "identifier")
	params.Set("rows", strconv.Itoa(10000))
	params.Set("output", "json")

	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", c.BaseURL+"/advancedsearch.php?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := readBody(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("list lookup: HTTP %d", resp.StatusCode)
	}

	existing := make(map[string]bool)
	gjson.Get(body, "response.docs").ForEach(func(_, doc gjson.Result) bool {
		if id := doc.Get("identifier").String(); id != "" {
			existing[id] = true
		}
		return true
	})
	return existing, nil
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Debugf(string, ...interface{}) {}
