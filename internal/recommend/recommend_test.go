package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	text      string
	err       error
	gotModel  string
	gotPrompt string
	gotConfig *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	f.gotConfig = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.gotPrompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

func TestParseMood(t *testing.T) {
	cases := map[string]Mood{"happy": MoodHappy, " SAD ": MoodSad, "Excited": MoodExcited, "relaxed": MoodRelaxed}
	for in, want := range cases {
		got, ok := ParseMood(in)
		if !ok || got != want {
			t.Fatalf("ParseMood(%q) = %q,%v; want %q", in, got, ok, want)
		}
	}
	if _, ok := ParseMood("angry"); ok {
		t.Fatal("expected unknown mood to be rejected")
	}
}

func TestMoods_ReturnsCopies(t *testing.T) {
	ms := Moods()
	if len(ms) != 4 {
		t.Fatalf("expected 4 moods, got %d", len(ms))
	}
	ms[0].Keywords[0] = "mutated"
	if Moods()[0].Keywords[0] == "mutated" {
		t.Fatal("Moods leaked internal keyword slice")
	}
}

func TestBuildPrompt_Mood(t *testing.T) {
	p := BuildPrompt(Request{Mood: MoodExcited, Exclude: []string{"Heat", "  ", "Ronin"}})
	for _, want := range []string{"Excited", "action-packed", "thrilling", "- Heat", "- Ronin", "12 movies"} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestBuildPrompt_Query(t *testing.T) {
	p := BuildPrompt(Request{Query: "  space heist ", Count: 5})
	if !strings.Contains(p, `"space heist"`) || !strings.Contains(p, "5 movies") {
		t.Fatalf("unexpected prompt:\n%s", p)
	}
	if strings.Contains(p, "Do not include") {
		t.Fatalf("no exclusions expected:\n%s", p)
	}
}

func TestGeminiSource_DecodesJSON(t *testing.T) {
	gen := &fakeGenerator{text: `{"movies":[{"title":"Heat","release_year":1995},{"title":"Ronin"}]}`}
	src := newGeminiSource(gen, GeminiConfig{Timeout: time.Second})

	recs, err := src.Recommend(context.Background(), Request{Mood: MoodExcited})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 2 || recs[0]["title"] != "Heat" {
		t.Fatalf("unexpected records: %v", recs)
	}
	if gen.gotModel != DefaultGeminiModel {
		t.Fatalf("expected default model, got %q", gen.gotModel)
	}
	if gen.gotConfig == nil || gen.gotConfig.ResponseMIMEType != "application/json" {
		t.Fatalf("expected JSON response mime type, got %+v", gen.gotConfig)
	}
	if !strings.Contains(gen.gotPrompt, "Excited") {
		t.Fatalf("prompt not forwarded: %q", gen.gotPrompt)
	}
}

func TestGeminiSource_Errors(t *testing.T) {
	boom := errors.New("quota exceeded")
	src := newGeminiSource(&fakeGenerator{err: boom}, GeminiConfig{Model: "m"})
	if _, err := src.Recommend(context.Background(), Request{Query: "x"}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if _, err := src.Recommend(context.Background(), Request{}); !errors.Is(err, ErrEmptyRequest) {
		t.Fatalf("expected ErrEmptyRequest, got %v", err)
	}
}

func TestGeminiSource_GarbageYieldsNoRecords(t *testing.T) {
	src := newGeminiSource(&fakeGenerator{text: "I cannot help with that."}, GeminiConfig{})
	recs, err := src.Recommend(context.Background(), Request{Query: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %v", recs)
	}
}

func TestBreakerSource_OpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	failing := SourceFunc(func(ctx context.Context, req Request) ([]map[string]any, error) {
		calls++
		return nil, errors.New("upstream down")
	})
	b := NewBreakerSource(failing, BreakerConfig{Failures: 2, Timeout: time.Minute}, zerolog.Nop())

	for i := 0; i < 2; i++ {
		if _, err := b.Recommend(context.Background(), Request{Query: "x"}); err == nil {
			t.Fatal("expected upstream error")
		}
	}
	if b.State() != "open" {
		t.Fatalf("expected open breaker, got %s", b.State())
	}
	if _, err := b.Recommend(context.Background(), Request{Query: "x"}); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected ErrOpenState, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("open breaker must not reach upstream; calls=%d", calls)
	}
}

func TestBreakerSource_PassesThrough(t *testing.T) {
	b := NewBreakerSource(NewStaticSource(), BreakerConfig{}, zerolog.Nop())
	recs, err := b.Recommend(context.Background(), Request{Mood: MoodHappy})
	if err != nil || len(recs) == 0 {
		t.Fatalf("expected records, got %v, %v", recs, err)
	}
	if b.State() != "closed" {
		t.Fatalf("expected closed breaker, got %s", b.State())
	}
}

func TestStaticSource_ExcludesAndFilters(t *testing.T) {
	s := NewStaticSource()

	recs, err := s.Recommend(context.Background(), Request{Mood: MoodSad, Exclude: []string{"titanic", "Forrest Gump"}})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for _, r := range recs {
		if r["title"] == "Titanic" || r["title"] == "Forrest Gump" {
			t.Fatalf("excluded title returned: %v", r["title"])
		}
	}

	recs, _ = s.Recommend(context.Background(), Request{Query: "animation"})
	if len(recs) != 2 {
		t.Fatalf("expected 2 animation records, got %d", len(recs))
	}

	// Returned records are copies.
	recs[0]["title"] = "changed"
	again, _ := s.Recommend(context.Background(), Request{Query: "animation"})
	if again[0]["title"] == "changed" {
		t.Fatal("static records were mutated through returned map")
	}
}

func TestStaticSource_Ranking(t *testing.T) {
	s := NewStaticSource()

	recs, err := s.Recommend(context.Background(), Request{Mood: MoodRelaxed})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != DefaultCount {
		t.Fatalf("mood results should be topped up to %d, got %d", DefaultCount, len(recs))
	}
	if recs[0]["title"] != "My Neighbor Totoro" {
		t.Fatalf("best relaxed match = %v", recs[0]["title"])
	}

	recs, _ = s.Recommend(context.Background(), Request{Query: "dreams and a heist"})
	if len(recs) != 1 || recs[0]["title"] != "Inception" {
		t.Fatalf("query results = %v", recs)
	}
	if recs[0]["match_score"] != 1.0 {
		t.Fatalf("top query hit should score 1.0, got %v", recs[0]["match_score"])
	}

	recs, _ = s.Recommend(context.Background(), Request{Query: "submarine"})
	if len(recs) != 0 {
		t.Fatalf("unmatched query should be empty, got %d", len(recs))
	}

	recs, _ = s.Recommend(context.Background(), Request{Mood: MoodExcited, Count: 3})
	if len(recs) != 3 {
		t.Fatalf("count not honored: %d", len(recs))
	}
}

func TestRelevance(t *testing.T) {
	if relevance(0.2, 0.4) != 0.75 || relevance(0.4, 0.4) != 1 || relevance(0.1, 0) != 0 {
		t.Fatal("relevance scaling")
	}
}
