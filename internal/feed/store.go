// Package feed implements the dish feed: the owned post collection, its
// mutations and the filtered, distance-ordered view shown to the actor.
package feed

import (
	"strings"
	"sync"
	"time"

	"dishfeed/internal/geo"
)

// Store owns the post collection. Mutation methods are the only write path
// and are serialised so they apply in arrival order.
type Store struct {
	mu            sync.Mutex
	posts         []*Post
	byID          map[int64]*Post
	nextID        int64
	nextCommentID map[int64]int64
	version       uint64
	now           func() time.Time
}

// NewStore creates an empty store. Post ids start at 1.
func NewStore() *Store {
	return &Store{
		byID:          make(map[int64]*Post),
		nextID:        1,
		nextCommentID: make(map[int64]int64),
		now:           time.Now,
	}
}

// Add materialises a post from fields, applying defaults for anything omitted.
// It never rejects input.
func (s *Store) Add(fields NewPost) Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p := &Post{
		ID:          s.nextID,
		Name:        fields.Name,
		Description: fields.Description,
		Category:    fields.Category,
		PlaceName:   fields.PlaceName,
		Address:     fields.Address,
		Location:    copyCoords(fields.Location),
		ImageRef:    fields.ImageRef,
		OwnerID:     GuestOwner,
		CreatedAt:   now,
		Comments:    []Comment{},
	}
	s.nextID++

	if fields.OwnerID != nil {
		p.OwnerID = *fields.OwnerID
	}
	if fields.LikeCount != nil {
		p.LikeCount = max(*fields.LikeCount, 0)
	}
	if fields.Liked != nil {
		p.LikedByCurrentActor = *fields.Liked
	}
	if fields.CreatedAt != nil {
		p.CreatedAt = *fields.CreatedAt
	}

	var nextComment int64 = 1
	for _, c := range fields.Comments {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		p.Comments = append(p.Comments, c)
		if c.ID >= nextComment {
			nextComment = c.ID + 1
		}
	}

	s.posts = append(s.posts, p)
	s.byID[p.ID] = p
	s.nextCommentID[p.ID] = nextComment
	s.version++

	return clonePost(p)
}

// Edit merges patch into the post with the given id
func (s *Store) Edit(id int64, patch PostPatch) (Post, Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return Post{}, OutcomeNotFound
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.PlaceName != nil {
		p.PlaceName = *patch.PlaceName
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.ImageRef != nil {
		p.ImageRef = *patch.ImageRef
	}
	switch {
	case patch.ClearLocation:
		p.Location = nil
	case patch.Location != nil:
		p.Location = copyCoords(patch.Location)
	}
	s.version++

	return clonePost(p), OutcomeApplied
}

// ToggleLike flips the current actor's like. Unliking never takes the count
// below zero.
func (s *Store) ToggleLike(id int64) (Post, Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return Post{}, OutcomeNotFound
	}

	if p.LikedByCurrentActor {
		p.LikedByCurrentActor = false
		p.LikeCount = max(p.LikeCount-1, 0)
	} else {
		p.LikedByCurrentActor = true
		p.LikeCount++
	}
	s.version++

	return clonePost(p), OutcomeApplied
}

// AddComment appends a comment to a post. Blank text is discarded.
func (s *Store) AddComment(postID int64, authorName, text string, isCurrentActor bool) (Comment, Outcome) {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[postID]
	if !ok {
		return Comment{}, OutcomeNotFound
	}
	if text == "" {
		return Comment{}, OutcomeEmptyInput
	}

	author := LiteralAuthor(authorName)
	if isCurrentActor {
		author = CurrentActorAuthor(authorName)
	}

	c := Comment{
		ID:        s.nextCommentID[postID],
		Author:    author,
		Text:      text,
		CreatedAt: s.now(),
	}
	s.nextCommentID[postID]++
	p.Comments = append(p.Comments, c)
	s.version++

	return c, OutcomeApplied
}

// Get returns a copy of the post with the given id
func (s *Store) Get(id int64) (Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return Post{}, false
	}
	return clonePost(p), true
}

// All returns copies of every post in collection order
func (s *Store) All() []Post {
	posts, _ := s.Snapshot()
	return posts
}

// Snapshot returns copies of every post together with the collection version.
// The version changes with every applied mutation.
func (s *Store) Snapshot() ([]Post, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, clonePost(p))
	}
	return out, s.version
}

// Len returns the number of posts
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

func clonePost(p *Post) Post {
	out := *p
	out.Location = copyCoords(p.Location)
	out.Comments = append([]Comment{}, p.Comments...)
	return out
}

func copyCoords(c *geo.Coordinates) *geo.Coordinates {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
