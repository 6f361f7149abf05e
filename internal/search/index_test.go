package search

import (
	"sync"
	"testing"
)

func docs() []Doc {
	return []Doc{
		{ID: "1", Text: "Paddington 2 - Comedy Family: a heartwarming bear in London"},
		{ID: "2", Text: "Mad Max: Fury Road - Action Adventure, thrilling desert chase"},
		{ID: "3", Text: "Spirited Away - Animation Fantasy, gentle and dreamlike"},
		{ID: "4", Text: "My Neighbor Totoro - Animation Family, calm and cozy"},
		{ID: "", Text: "no id is skipped"},
		{ID: "5", Text: "the a of"},
	}
}

func TestOptionsAndDefaults(t *testing.T) {
	def := defaultConfig()
	if def.stopwords != nil || def.maxDocs != 0 {
		t.Fatalf("defaultConfig unexpected: %#v", def)
	}

	cfg := def
	WithStopwords([]string{"  The ", "", "An"})(&cfg)
	if _, ok := cfg.stopwords["the"]; !ok {
		t.Fatalf("missing 'the': %#v", cfg.stopwords)
	}
	if _, ok := cfg.stopwords["an"]; !ok {
		t.Fatalf("missing 'an': %#v", cfg.stopwords)
	}

	cfg2 := def
	WithStopwords(nil)(&cfg2)
	if cfg2.stopwords != nil {
		t.Fatal("empty stopwords should remain nil")
	}

	WithMaxDocs(2)(&cfg)
	WithMaxDocs(0)(&cfg)
	if cfg.maxDocs != 2 {
		t.Fatalf("maxDocs=%d", cfg.maxDocs)
	}
}

func TestNewIndex_SkipsEmptyDocs(t *testing.T) {
	idx := NewIndex(docs(), WithStopwords(DefaultStopwords))
	if idx.Len() != 4 {
		t.Fatalf("Len=%d want 4", idx.Len())
	}
	if n := NewIndex(docs(), WithMaxDocs(2)).Len(); n != 2 {
		t.Fatalf("maxDocs Len=%d", n)
	}
}

func TestTopK_RankingAndTies(t *testing.T) {
	idx := NewIndex(docs(), WithStopwords(DefaultStopwords))

	res := idx.TopK("animation", 0)
	if len(res) != 2 || res[0].ID != "3" || res[1].ID != "4" {
		t.Fatalf("tie order should follow insertion: %+v", res)
	}

	res = idx.TopK("calm cozy animation", 1)
	if len(res) != 1 || res[0].ID != "4" {
		t.Fatalf("best match: %+v", res)
	}
	if res[0].Score <= 0 || res[0].Score > 1 {
		t.Fatalf("score out of range: %v", res[0].Score)
	}

	if got := idx.TopK("PADDINGTON 2", 5); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("case/number tokens: %+v", got)
	}
}

func TestTopK_EmptyCases(t *testing.T) {
	idx := NewIndex(docs(), WithStopwords(DefaultStopwords))
	if idx.TopK("", 3) != nil || idx.TopK("   ", 3) != nil {
		t.Fatal("blank query should return nil")
	}
	if idx.TopK("the movie", 3) != nil {
		t.Fatal("stop-word-only query should return nil")
	}
	if idx.TopK("submarine", 3) != nil {
		t.Fatal("no overlap should return nil")
	}
	if NewIndex(nil).TopK("anything", 3) != nil {
		t.Fatal("empty index should return nil")
	}
}

func TestTopK_ConcurrentReaders(t *testing.T) {
	idx := NewIndex(docs())
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if len(idx.TopK("family", 2)) != 2 {
				t.Error("unexpected result size")
			}
		}()
	}
	wg.Wait()
}

func TestOverlapAndTokenize(t *testing.T) {
	a := tokenize("Feel-good, feel GOOD!", nil)
	if len(a) != 2 {
		t.Fatalf("tokens=%v", a)
	}
	if overlap(a, tokenize("good vibes", nil)) != 1 {
		t.Fatal("overlap")
	}
	if overlap(nil, a) != 0 {
		t.Fatal("nil overlap")
	}
	if tokenize("the", map[string]struct{}{"the": {}}) != nil {
		t.Fatal("all-stopword text should tokenize to nil")
	}
}
