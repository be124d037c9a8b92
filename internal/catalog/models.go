package catalog

import (
	"fmt"
	"strings"
)

// MediaKind is the catalog's media type tag.
type MediaKind string

const (
	KindMovie  MediaKind = "movie"
	KindTV     MediaKind = "tv"
	KindPerson MediaKind = "person"
)

// ParseKind maps user input onto a detail kind. Anything other than "tv" is a movie.
func ParseKind(value string) MediaKind {
	if strings.EqualFold(strings.TrimSpace(value), string(KindTV)) {
		return KindTV
	}
	return KindMovie
}

// detailSegment returns the path segment used for detail lookups.
func (k MediaKind) detailSegment() string {
	if k == KindTV {
		return "tv"
	}
	return "movie"
}

const untitled = "Untitled"

// Item is a catalog entry as returned by listings and searches. Field names
// follow the remote API so list snapshots round-trip verbatim.
type Item struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title,omitempty"`
	Name         string    `json:"name,omitempty"`
	PosterPath   string    `json:"poster_path,omitempty"`
	BackdropPath string    `json:"backdrop_path,omitempty"`
	ProfilePath  string    `json:"profile_path,omitempty"`
	Overview     string    `json:"overview,omitempty"`
	ReleaseDate  string    `json:"release_date,omitempty"`
	FirstAirDate string    `json:"first_air_date,omitempty"`
	VoteAverage  *float64  `json:"vote_average,omitempty"`
	Popularity   *float64  `json:"popularity,omitempty"`
	MediaType    MediaKind `json:"media_type,omitempty"`
}

// DisplayTitle returns title, then name, then a placeholder.
func (i Item) DisplayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	if i.Name != "" {
		return i.Name
	}
	return untitled
}

// Rating returns the vote average, treating a missing value as 0.
func (i Item) Rating() float64 {
	if i.VoteAverage == nil {
		return 0
	}
	return *i.VoteAverage
}

// PopularityScore returns the popularity, treating a missing value as 0.
func (i Item) PopularityScore() float64 {
	if i.Popularity == nil {
		return 0
	}
	return *i.Popularity
}

// ReleaseYear returns the first four characters of the release or first-air date.
func (i Item) ReleaseYear() string {
	date := i.ReleaseDate
	if date == "" {
		date = i.FirstAirDate
	}
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Person is a cast or crew member.
type Person struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path,omitempty"`
}

// CastMember is a Person credited with a character.
type CastMember struct {
	Person
	Character string `json:"character,omitempty"`
}

type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// Detail is the extended record for one movie or show.
type Detail struct {
	Item
	Genres           []Genre `json:"genres,omitempty"`
	Runtime          int     `json:"runtime,omitempty"`
	EpisodeRunTime   []int   `json:"episode_run_time,omitempty"`
	NumberOfSeasons  int     `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes int     `json:"number_of_episodes,omitempty"`
	Status           string  `json:"status,omitempty"`
	Tagline          string  `json:"tagline,omitempty"`
	Credits          struct {
		Cast []CastMember `json:"cast"`
	} `json:"credits"`
	Videos struct {
		Results []Video `json:"results"`
	} `json:"videos"`
}

// RuntimeLabel renders the runtime as "2h 5min", "45min per episode", or "N/A".
func (d Detail) RuntimeLabel() string {
	if d.Runtime > 0 {
		return fmt.Sprintf("%dh %dmin", d.Runtime/60, d.Runtime%60)
	}
	if len(d.EpisodeRunTime) > 0 && d.EpisodeRunTime[0] > 0 {
		return fmt.Sprintf("%dmin per episode", d.EpisodeRunTime[0])
	}
	return "N/A"
}

// GenreNames returns the genre names in catalog order.
func (d Detail) GenreNames() []string {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return names
}

// Trailer returns the first YouTube trailer, if any.
func (d Detail) Trailer() (Video, bool) {
	for _, v := range d.Videos.Results {
		if strings.EqualFold(v.Site, "YouTube") && strings.EqualFold(v.Type, "Trailer") {
			return v, true
		}
	}
	return Video{}, false
}

// TopCast returns at most n cast members in billing order.
func (d Detail) TopCast(n int) []CastMember {
	if n < 0 || n >= len(d.Credits.Cast) {
		return d.Credits.Cast
	}
	return d.Credits.Cast[:n]
}

// Credits is a person's combined filmography.
type Credits struct {
	ID   int64  `json:"id"`
	Cast []Item `json:"cast"`
	Crew []Item `json:"crew"`
}

type page struct {
	Page    int    `json:"page"`
	Results []Item `json:"results"`
}
