package recommend

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// systemInstruction fixes the wire shape the model must answer with.
const systemInstruction = `You are a film curator. Answer with a JSON array only, no prose.
Each element is an object with these keys:
  "movie_id"     string, a TMDB id when known
  "title"        string
  "overview"     string, one or two sentences
  "genres"       array of strings
  "vote_average" number between 0 and 10
  "poster_path"  string, a TMDB poster path such as "/abc123.jpg"
  "release_year" number
  "match_score"  number between 0 and 1, how well the film fits the request
  "reasoning"    string, one sentence on why it fits`

var titleCaser = cases.Title(language.English)

// BuildPrompt renders the user prompt for req.
func BuildPrompt(req Request) string {
	var b strings.Builder
	n := req.count()

	if req.Kind() == KindMood {
		fmt.Fprintf(&b, "Recommend %d movies for someone feeling %s.\n", n, titleCaser.String(string(req.Mood)))
		if kw := req.Mood.Keywords(); len(kw) > 0 {
			fmt.Fprintf(&b, "Favor films that are %s.\n", strings.Join(kw, ", "))
		}
	} else {
		fmt.Fprintf(&b, "Recommend %d movies matching this request: %q.\n", n, strings.TrimSpace(req.Query))
	}

	if len(req.Exclude) > 0 {
		b.WriteString("Do not include any of these titles:\n")
		for _, t := range req.Exclude {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}
	b.WriteString("Order the array by match_score, best first.")
	return b.String()
}
