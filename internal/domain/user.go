package domain

// UserProfile is one entry of the static profile roster.
type UserProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Color  string `json:"color"`
}

// UserData is the durable per-owner aggregate. Watchlist and History are
// ordered most-recent-first and unique by MovieID.
type UserData struct {
	User      *UserProfile  `json:"user"`
	Profiles  []UserProfile `json:"profiles"`
	Watchlist []Movie       `json:"watchlist"`
	History   []Movie       `json:"history"`
}

// SeedProfiles returns the default profile roster.
func SeedProfiles() []UserProfile {
	return []UserProfile{
		{ID: "p1", Name: "Alex", Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Alex", Color: "#e50914"},
		{ID: "p2", Name: "Sam", Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Sam", Color: "#0071eb"},
		{ID: "p3", Name: "Jordan", Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Jordan", Color: "#f5c518"},
	}
}

// DefaultUserData returns a fresh aggregate: no selected user, the three
// seed profiles, and empty collections.
func DefaultUserData() *UserData {
	return &UserData{
		Profiles:  SeedProfiles(),
		Watchlist: []Movie{},
		History:   []Movie{},
	}
}

// Clone returns a deep copy of d.
func (d *UserData) Clone() *UserData {
	if d == nil {
		return nil
	}
	out := &UserData{
		Profiles:  append([]UserProfile(nil), d.Profiles...),
		Watchlist: make([]Movie, len(d.Watchlist)),
		History:   make([]Movie, len(d.History)),
	}
	if d.User != nil {
		u := *d.User
		out.User = &u
	}
	for i, m := range d.Watchlist {
		out.Watchlist[i] = m.Clone()
	}
	for i, m := range d.History {
		out.History[i] = m.Clone()
	}
	return out
}

// Normalize fills nil slices so the aggregate always encodes with arrays,
// and restores the seed roster when a stored document has none.
func (d *UserData) Normalize() {
	if len(d.Profiles) == 0 {
		d.Profiles = SeedProfiles()
	}
	if d.Watchlist == nil {
		d.Watchlist = []Movie{}
	}
	if d.History == nil {
		d.History = []Movie{}
	}
}

// HistoryIDs returns the set of movie ids present in History.
func (d *UserData) HistoryIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(d.History))
	for _, m := range d.History {
		ids[m.MovieID] = struct{}{}
	}
	return ids
}

// HistoryTitles returns the titles in History, most recent first.
func (d *UserData) HistoryTitles() []string {
	out := make([]string, 0, len(d.History))
	for _, m := range d.History {
		if m.Title != "" {
			out = append(out, m.Title)
		}
	}
	return out
}
