package curation

import (
	"reflect"
	"strings"
	"testing"
)

func scoringConfig() *Config {
	cfg := DefaultConfig()
	cfg.AcademicPatterns = []string{"thesis", "dissertation", "journal of"}
	cfg.InterviewPatterns = []string{"interview", "in conversation"}
	cfg.LiveRecordingPatterns = []string{"live at", "bootleg"}
	cfg.TrustedPublishers = []string{"Impulse!", "Penguin"}
	cfg.TrustedCollections = []string{"librivoxaudio", "gutenberg"}
	cfg.PreferredFormats = map[string][]string{
		"audio": {"VBR MP3", "FLAC"},
		"texts": {"PDF"},
	}
	return cfg
}

func intPtr(n int) *int { return &n }

func TestScore_NoEnrichmentInRange(t *testing.T) {
	cfg := scoringConfig()
	hits := []Hit{
		{},
		{Title: "Some Title", Downloads: 123},
		{Title: "thesis on everything", Description: "a dissertation"},
		{Collections: []string{"gutenberg"}, Publisher: "Penguin Books", Downloads: 5_000_000},
	}
	for _, hit := range hits {
		for _, mediatype := range []string{"texts", "audio", "movies", ""} {
			result := Score(hit, nil, mediatype, cfg)
			if result.Score < 0 || result.Score > 100 {
				t.Fatalf("score out of range for %+v (%s): %d", hit, mediatype, result.Score)
			}
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	cfg := scoringConfig()
	hit := Hit{
		Title:       "Live at the Vanguard interview thesis",
		Description: "a live recording",
		Publisher:   "Impulse! Records",
		Collections: []string{"librivoxaudio"},
		Downloads:   4200,
	}
	enrichment := &Enrichment{PageCount: intPtr(300), HasFiles: true, Files: []FileInfo{{Name: "a.mp3", Format: "VBR MP3"}}}

	first := Score(hit, enrichment, "audio", cfg)
	for i := 0; i < 5; i++ {
		again := Score(hit, enrichment, "audio", cfg)
		if again.Score != first.Score || again.Passes != first.Passes {
			t.Fatalf("score not deterministic: %d vs %d", first.Score, again.Score)
		}
		if !reflect.DeepEqual(again.Reasons, first.Reasons) {
			t.Fatalf("reasons not deterministic:\n%v\nvs\n%v", first.Reasons, again.Reasons)
		}
	}
}

func TestScore_ClampsLowAndHigh(t *testing.T) {
	cfg := scoringConfig()
	cfg.AcademicPenalty = 500
	low := Score(Hit{Title: "thesis"}, nil, "texts", cfg)
	if low.Score != 0 {
		t.Fatalf("expected clamp to 0, got %d", low.Score)
	}

	cfg = scoringConfig()
	cfg.PublisherBonus = 500
	high := Score(Hit{Publisher: "Penguin"}, nil, "texts", cfg)
	if high.Score != 100 {
		t.Fatalf("expected clamp to 100, got %d", high.Score)
	}
}

func TestScore_PageCountRule(t *testing.T) {
	cfg := scoringConfig()

	thin := Score(Hit{}, &Enrichment{PageCount: intPtr(10)}, "texts", cfg)
	if thin.Score != baseScore-cfg.PageCount.MinPenalty {
		t.Fatalf("thin text: expected %d, got %d", baseScore-cfg.PageCount.MinPenalty, thin.Score)
	}

	thick := Score(Hit{}, &Enrichment{PageCount: intPtr(500)}, "texts", cfg)
	if thick.Score != baseScore+cfg.PageCount.BonusPoints {
		t.Fatalf("thick text: expected %d, got %d", baseScore+cfg.PageCount.BonusPoints, thick.Score)
	}

	middle := Score(Hit{}, &Enrichment{PageCount: intPtr(100)}, "texts", cfg)
	if middle.Score != baseScore {
		t.Fatalf("mid-length text: expected %d, got %d", baseScore, middle.Score)
	}
}

func TestScore_UnknownPageCountIsNotDeficient(t *testing.T) {
	cfg := scoringConfig()

	// Absent enrichment and absent page count must both skip the rule.
	for _, enrichment := range []*Enrichment{nil, {}} {
		result := Score(Hit{}, enrichment, "texts", cfg)
		if result.Score != baseScore {
			t.Fatalf("unknown length must not be penalized, got %d", result.Score)
		}
		if len(result.Reasons) != 0 {
			t.Fatalf("expected no adjustments, got %v", result.Reasons)
		}
	}
}

func TestScore_PageCountOnlyAppliesToTexts(t *testing.T) {
	cfg := scoringConfig()
	result := Score(Hit{}, &Enrichment{PageCount: intPtr(5)}, "audio", cfg)
	if result.Score != baseScore {
		t.Fatalf("page rule must not fire for audio, got %d", result.Score)
	}
}

func TestScore_AcademicPenaltyNeverStacks(t *testing.T) {
	cfg := scoringConfig()
	hit := Hit{Title: "thesis and dissertation", Description: "journal of results"}
	result := Score(hit, nil, "texts", cfg)
	if result.Score != baseScore-cfg.AcademicPenalty {
		t.Fatalf("expected a single penalty of %d, got score %d", cfg.AcademicPenalty, result.Score)
	}
	if len(result.Reasons) != 1 {
		t.Fatalf("expected one reason, got %v", result.Reasons)
	}
	if !strings.Contains(result.Reasons[0], "thesis") {
		t.Fatalf("first declared pattern must win, got %q", result.Reasons[0])
	}
}

func TestScore_AudioOnlyPatternRules(t *testing.T) {
	cfg := scoringConfig()
	hit := Hit{Title: "An interview live at the studio"}

	audio := Score(hit, nil, "audio", cfg)
	want := baseScore - cfg.InterviewPenalty - cfg.LiveRecordingPenalty
	if want < 0 {
		want = 0
	}
	if audio.Score != want {
		t.Fatalf("audio: expected %d, got %d", want, audio.Score)
	}
	if len(audio.Reasons) != 2 {
		t.Fatalf("expected interview and live-recording reasons, got %v", audio.Reasons)
	}

	texts := Score(hit, nil, "texts", cfg)
	if texts.Score != baseScore {
		t.Fatalf("interview/live rules must not fire for texts, got %d", texts.Score)
	}
}

func TestScore_TrustedPublisherSubstring(t *testing.T) {
	cfg := scoringConfig()
	result := Score(Hit{Publisher: "penguin classics, london"}, nil, "texts", cfg)
	if result.Score != baseScore+cfg.PublisherBonus {
		t.Fatalf("expected publisher bonus once, got %d", result.Score)
	}
}

func TestScore_TrustedCollectionExactMatch(t *testing.T) {
	cfg := scoringConfig()

	match := Score(Hit{Collections: []string{"opensource", "gutenberg"}}, nil, "texts", cfg)
	if match.Score != baseScore+cfg.CollectionBonus {
		t.Fatalf("expected collection bonus, got %d", match.Score)
	}

	// Collection comparison is exact, not substring.
	noMatch := Score(Hit{Collections: []string{"gutenberg-extras"}}, nil, "texts", cfg)
	if noMatch.Score != baseScore {
		t.Fatalf("partial collection name must not match, got %d", noMatch.Score)
	}
}

func TestScore_FormatBonusRequiresFileListing(t *testing.T) {
	cfg := scoringConfig()

	withFiles := &Enrichment{HasFiles: true, Files: []FileInfo{{Name: "x.flac", Format: "FLAC"}}}
	result := Score(Hit{}, withFiles, "audio", cfg)
	if result.Score != baseScore+cfg.FormatBonus {
		t.Fatalf("expected format bonus, got %d", result.Score)
	}

	// Enrichment without a file listing must not fire the rule.
	noFiles := &Enrichment{PageCount: intPtr(10)}
	result = Score(Hit{}, noFiles, "audio", cfg)
	if result.Score != baseScore {
		t.Fatalf("format rule must need the file listing, got %d", result.Score)
	}
}

func TestScore_PopularityBonus(t *testing.T) {
	cfg := scoringConfig()
	cases := []struct {
		downloads int
		bonus     int
	}{
		{0, 0},
		{1000, 0},
		{1001, 1},
		{4200, 4},
		{10000, 10},
		{9_999_999, 10},
	}
	for _, c := range cases {
		result := Score(Hit{Downloads: c.downloads}, nil, "texts", cfg)
		if result.Score != baseScore+c.bonus {
			t.Fatalf("downloads=%d: expected bonus %d, got score %d", c.downloads, c.bonus, result.Score)
		}
	}
}

func TestScore_PassesThreshold(t *testing.T) {
	cfg := scoringConfig()
	cfg.MinConfidence = 70

	if r := Score(Hit{}, nil, "texts", cfg); !r.Passes {
		t.Fatalf("score %d must pass threshold %d", r.Score, cfg.MinConfidence)
	}
	cfg.MinConfidence = 71
	if r := Score(Hit{}, nil, "texts", cfg); r.Passes {
		t.Fatalf("score %d must fail threshold %d", r.Score, cfg.MinConfidence)
	}
}
