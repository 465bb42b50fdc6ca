package curation

import (
	"fmt"
	"strings"
)

// baseScore is the starting confidence before any rule applies.
const baseScore = 70

// ruleInput bundles everything a scoring rule may look at. The lowercased
// title+description concatenation is computed once, not per rule.
type ruleInput struct {
	hit        Hit
	enrichment *Enrichment
	mediatype  string
	cfg        *Config
	text       string
}

// scoreRule is one declarative scoring rule. Rules run in the order they
// are declared in scoreRules; each returns a signed delta and a reason, or
// (0, "") when it does not apply. A rule that matches multiple ways still
// fires at most once.
type scoreRule struct {
	name  string
	apply func(in ruleInput) (int, string)
}

// scoreRules is the fixed rule order. Reordering entries changes the
// recorded reason order, so the list is append-only in spirit.
var scoreRules = []scoreRule{
	{name: "page-count", apply: pageCountRule},
	{name: "academic-pattern", apply: academicPatternRule},
	{name: "interview-pattern", apply: interviewPatternRule},
	{name: "live-recording-pattern", apply: liveRecordingPatternRule},
	{name: "trusted-publisher", apply: trustedPublisherRule},
	{name: "trusted-collection", apply: trustedCollectionRule},
	{name: "preferred-format", apply: preferredFormatRule},
	{name: "popularity", apply: popularityRule},
}

// Score computes the confidence score for a hit. It is pure: the same
// (hit, enrichment, mediatype, cfg) always yields the same score and the
// same reasons in the same order. enrichment may be nil; rules that need
// it simply do not apply, since an unknown attribute is never treated as
// a deficient one.
func Score(hit Hit, enrichment *Enrichment, mediatype string, cfg *Config) ScoreResult {
	in := ruleInput{
		hit:        hit,
		enrichment: enrichment,
		mediatype:  mediatype,
		cfg:        cfg,
		text:       strings.ToLower(hit.Title) + " " + strings.ToLower(hit.Description),
	}

	score := baseScore
	var reasons []string
	for _, rule := range scoreRules {
		delta, reason := rule.apply(in)
		if reason == "" {
			continue
		}
		score += delta
		reasons = append(reasons, reason)
	}

	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	return ScoreResult{
		Score:   score,
		Reasons: reasons,
		Passes:  score >= cfg.MinConfidence,
	}
}

// pageCountRule penalizes thin texts and rewards substantial ones. It only
// fires for text items with a known page count.
func pageCountRule(in ruleInput) (int, string) {
	if in.mediatype != "texts" || in.enrichment == nil || in.enrichment.PageCount == nil {
		return 0, ""
	}
	pages := *in.enrichment.PageCount
	pc := in.cfg.PageCount
	if pages < pc.MinPages {
		return -pc.MinPenalty, fmt.Sprintf("-%d: Only %d pages (min: %d)", pc.MinPenalty, pages, pc.MinPages)
	}
	if pages >= pc.BonusThreshold {
		return pc.BonusPoints, fmt.Sprintf("+%d: %d pages (substantial work)", pc.BonusPoints, pages)
	}
	return 0, ""
}

func academicPatternRule(in ruleInput) (int, string) {
	pattern, ok := firstPatternMatch(in.text, in.cfg.AcademicPatterns)
	if !ok {
		return 0, ""
	}
	p := in.cfg.AcademicPenalty
	return -p, fmt.Sprintf("-%d: Academic pattern detected: '%s'", p, pattern)
}

func interviewPatternRule(in ruleInput) (int, string) {
	if in.mediatype != "audio" {
		return 0, ""
	}
	pattern, ok := firstPatternMatch(in.text, in.cfg.InterviewPatterns)
	if !ok {
		return 0, ""
	}
	p := in.cfg.InterviewPenalty
	return -p, fmt.Sprintf("-%d: Interview pattern: '%s'", p, pattern)
}

func liveRecordingPatternRule(in ruleInput) (int, string) {
	if in.mediatype != "audio" {
		return 0, ""
	}
	pattern, ok := firstPatternMatch(in.text, in.cfg.LiveRecordingPatterns)
	if !ok {
		return 0, ""
	}
	p := in.cfg.LiveRecordingPenalty
	return -p, fmt.Sprintf("-%d: Live recording pattern: '%s'", p, pattern)
}

func trustedPublisherRule(in ruleInput) (int, string) {
	publisher := strings.ToLower(in.hit.Publisher)
	if publisher == "" {
		return 0, ""
	}
	for _, trusted := range in.cfg.TrustedPublishers {
		if strings.Contains(publisher, strings.ToLower(trusted)) {
			return in.cfg.PublisherBonus, fmt.Sprintf("+%d: Trusted publisher: %s", in.cfg.PublisherBonus, trusted)
		}
	}
	return 0, ""
}

func trustedCollectionRule(in ruleInput) (int, string) {
	for _, coll := range in.hit.Collections {
		for _, trusted := range in.cfg.TrustedCollections {
			if coll == trusted {
				return in.cfg.CollectionBonus, fmt.Sprintf("+%d: Trusted collection: %s", in.cfg.CollectionBonus, coll)
			}
		}
	}
	return 0, ""
}

// preferredFormatRule requires the file listing to be present; metadata
// alone says nothing about formats.
func preferredFormatRule(in ruleInput) (int, string) {
	if in.enrichment == nil || !in.enrichment.HasFiles {
		return 0, ""
	}
	preferred := in.cfg.PreferredFormats[in.mediatype]
	if len(preferred) == 0 {
		return 0, ""
	}
	for _, f := range in.enrichment.Files {
		for _, want := range preferred {
			if f.Format == want {
				return in.cfg.FormatBonus, fmt.Sprintf("+%d: Preferred format: %s", in.cfg.FormatBonus, f.Format)
			}
		}
	}
	return 0, ""
}

// popularityRule adds min(10, downloads/1000) once downloads pass 1000.
// Uncapped input, capped output.
func popularityRule(in ruleInput) (int, string) {
	downloads := in.hit.Downloads
	if downloads <= 1000 {
		return 0, ""
	}
	bonus := downloads / 1000
	if bonus > 10 {
		bonus = 10
	}
	return bonus, fmt.Sprintf("+%d: Popular (%d downloads)", bonus, downloads)
}

// firstPatternMatch returns the first pattern (in declared order) found as
// a case-insensitive substring of text. First match wins; later patterns
// never stack.
func firstPatternMatch(text string, patterns []string) (string, bool) {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(pattern)) {
			return pattern, true
		}
	}
	return "", false
}
