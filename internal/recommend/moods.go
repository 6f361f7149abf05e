package recommend

import "strings"

// Mood is one of the enumerated emotional-state tags.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
	MoodExcited Mood = "excited"
	MoodRelaxed Mood = "relaxed"
)

// MoodInfo describes a mood as presented to clients and to the model.
type MoodInfo struct {
	ID       Mood     `json:"id"`
	Label    string   `json:"label"`
	Emoji    string   `json:"emoji"`
	Keywords []string `json:"keywords"`
}

var moods = []MoodInfo{
	{ID: MoodHappy, Label: "Happy", Emoji: "😊", Keywords: []string{"uplifting", "feel-good", "comedy", "heartwarming"}},
	{ID: MoodSad, Label: "Sad", Emoji: "😢", Keywords: []string{"emotional", "moving", "drama", "cathartic"}},
	{ID: MoodExcited, Label: "Excited", Emoji: "🤩", Keywords: []string{"action-packed", "thrilling", "adrenaline", "adventure"}},
	{ID: MoodRelaxed, Label: "Relaxed", Emoji: "😌", Keywords: []string{"calm", "cozy", "gentle", "slow-paced"}},
}

// Moods returns the supported moods in display order.
func Moods() []MoodInfo {
	out := make([]MoodInfo, len(moods))
	for i, m := range moods {
		m.Keywords = append([]string(nil), m.Keywords...)
		out[i] = m
	}
	return out
}

// ParseMood resolves s (case-insensitive) to a known mood.
func ParseMood(s string) (Mood, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range moods {
		if string(m.ID) == s {
			return m.ID, true
		}
	}
	return "", false
}

// Keywords returns the descriptive keyword set for m, or nil when unknown.
func (m Mood) Keywords() []string {
	for _, x := range moods {
		if x.ID == m {
			return append([]string(nil), x.Keywords...)
		}
	}
	return nil
}
