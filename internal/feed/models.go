package feed

import (
	"time"

	"dishfeed/internal/geo"
)

const (
	// GuestOwner is the owner recorded for dishes posted without a signed-in user
	GuestOwner = "guest"
	// AllCategories disables the category filter
	AllCategories = "All"
)

// Categories offered as quick filters in the feed
var Categories = []string{AllCategories, "Filipino", "Korean", "Japanese", "Italian", "Drinks", "Dessert"}

// Post is a dish entry in the feed
type Post struct {
	ID                  int64            `json:"id"`
	Name                string           `json:"name"`
	Description         string           `json:"description"`
	Category            string           `json:"category"`
	PlaceName           string           `json:"place_name"`
	Address             string           `json:"address"`
	Location            *geo.Coordinates `json:"location,omitempty"`
	ImageRef            string           `json:"image_ref"`
	OwnerID             string           `json:"owner_id"`
	LikeCount           int              `json:"like_count"`
	LikedByCurrentActor bool             `json:"liked"`
	CreatedAt           time.Time        `json:"created_at"`
	Comments            []Comment        `json:"comments"`
}

// AuthorKind tags how a comment author is displayed
type AuthorKind string

const (
	// AuthorLiteral displays the stored name as is
	AuthorLiteral AuthorKind = "literal"
	// AuthorCurrentActor displays the live profile name of the current actor
	AuthorCurrentActor AuthorKind = "current_actor"
)

// Author identifies who wrote a comment. For AuthorCurrentActor, Name holds
// the display name captured at write time and is only used as a fallback.
type Author struct {
	Kind AuthorKind `json:"kind"`
	Name string     `json:"name,omitempty"`
}

// LiteralAuthor returns an author shown with a fixed name
func LiteralAuthor(name string) Author {
	return Author{Kind: AuthorLiteral, Name: name}
}

// CurrentActorAuthor returns an author resolved from the actor's profile at read time
func CurrentActorAuthor(nameAtWrite string) Author {
	return Author{Kind: AuthorCurrentActor, Name: nameAtWrite}
}

// Profile is the part of the current actor's identity needed to render authors
type Profile struct {
	Username    string
	DisplayName string
}

// ResolveAuthor returns the name to display for a comment author
func ResolveAuthor(a Author, current Profile) string {
	if a.Kind == AuthorCurrentActor {
		switch {
		case current.DisplayName != "":
			return current.DisplayName
		case current.Username != "":
			return current.Username
		case a.Name != "":
			return a.Name
		default:
			return "You"
		}
	}
	if a.Name == "" {
		return "User"
	}
	return a.Name
}

// Comment is a remark left on a post. IDs are unique within the post only.
type Comment struct {
	ID        int64     `json:"id"`
	Author    Author    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPost carries the fields for Store.Add. Nil fields take their defaults.
type NewPost struct {
	Name        string
	Description string
	Category    string
	PlaceName   string
	Address     string
	Location    *geo.Coordinates
	ImageRef    string

	OwnerID   *string
	LikeCount *int
	Liked     *bool
	CreatedAt *time.Time
	Comments  []Comment
}

// PostPatch is a partial update for Store.Edit. Nil fields are left unchanged.
type PostPatch struct {
	Name          *string
	Description   *string
	Category      *string
	PlaceName     *string
	Address       *string
	ImageRef      *string
	Location      *geo.Coordinates
	ClearLocation bool
}

// Outcome reports what a mutation did. Callers that do not care may ignore it.
type Outcome int

const (
	// OutcomeApplied means the collection changed
	OutcomeApplied Outcome = iota
	// OutcomeNotFound means the target post does not exist
	OutcomeNotFound
	// OutcomeEmptyInput means the input was blank and discarded
	OutcomeEmptyInput
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeEmptyInput:
		return "empty_input"
	default:
		return "unknown"
	}
}

// OwnerFilter selects whose posts the feed shows
type OwnerFilter string

const (
	OwnerAll  OwnerFilter = "all"
	OwnerMine OwnerFilter = "mine"
)

// Query describes a feed view
type Query struct {
	Category string
	Text     string
	Owner    OwnerFilter
	ActorID  string
	Origin   *geo.Coordinates
}

// Entry is one post in a derived feed view
type Entry struct {
	Post       Post     `json:"post"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}
