package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	viewCachePrefix = "feed:view:"
	viewCacheTTL    = 2 * time.Minute
)

// Service wraps the store with view caching and event publishing
type Service struct {
	store  *Store
	cache  *redis.Client
	events EventPublisher
	logger *slog.Logger
}

// NewService creates a feed service. cache may be nil, which disables view caching.
func NewService(store *Store, cache *redis.Client, events EventPublisher, logger *slog.Logger) *Service {
	if events == nil {
		events = NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		cache:  cache,
		events: events,
		logger: logger,
	}
}

// Create adds a post owned by actorID
func (s *Service) Create(ctx context.Context, actorID string, fields NewPost) Post {
	if fields.OwnerID == nil && actorID != "" {
		fields.OwnerID = &actorID
	}
	post := s.store.Add(fields)

	s.afterMutation(ctx, NewEvent(EventPostCreated, post.ID, actorID, map[string]any{
		"name":     post.Name,
		"category": post.Category,
	}))
	return post
}

// Get returns a single post
func (s *Service) Get(id int64) (Post, bool) {
	return s.store.Get(id)
}

// Edit applies a partial update
func (s *Service) Edit(ctx context.Context, actorID string, id int64, patch PostPatch) (Post, Outcome) {
	post, outcome := s.store.Edit(id, patch)
	if outcome == OutcomeApplied {
		s.afterMutation(ctx, NewEvent(EventPostEdited, id, actorID, nil))
	}
	return post, outcome
}

// ToggleLike flips the actor's like on a post
func (s *Service) ToggleLike(ctx context.Context, actorID string, id int64) (Post, Outcome) {
	post, outcome := s.store.ToggleLike(id)
	if outcome == OutcomeApplied {
		typ := EventPostUnliked
		if post.LikedByCurrentActor {
			typ = EventPostLiked
		}
		s.afterMutation(ctx, NewEvent(typ, id, actorID, map[string]any{
			"like_count": post.LikeCount,
		}))
	}
	return post, outcome
}

// AddComment appends a comment written by the current actor
func (s *Service) AddComment(ctx context.Context, actorID string, postID int64, authorName, text string, isCurrentActor bool) (Comment, Outcome) {
	comment, outcome := s.store.AddComment(postID, authorName, text, isCurrentActor)
	if outcome == OutcomeApplied {
		s.afterMutation(ctx, NewEvent(EventCommentAdded, postID, actorID, map[string]any{
			"comment_id": comment.ID,
		}))
	}
	return comment, outcome
}

// View returns the filtered feed, served from cache when possible
func (s *Service) View(ctx context.Context, q Query) []Entry {
	posts, version := s.store.Snapshot()
	key := viewCacheKey(version, q)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var entries []Entry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				s.logger.Debug("Feed view cache hit", "key", key)
				return entries
			}
		}
	}

	entries := Filter(posts, q)

	if s.cache != nil {
		data, err := json.Marshal(entries)
		if err == nil {
			if err := s.cache.Set(ctx, key, data, viewCacheTTL).Err(); err != nil {
				s.logger.Warn("Failed to cache feed view", "key", key, "error", err)
			}
		}
	}

	return entries
}

func (s *Service) afterMutation(ctx context.Context, event Event) {
	s.invalidateViews(ctx)

	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish feed event",
			"type", event.Type,
			"post_id", event.PostID,
			"error", err)
	}
}

// invalidateViews drops cached views. Keys carry the store version, so stale
// entries are never served; this only frees memory early.
func (s *Service) invalidateViews(ctx context.Context) {
	if s.cache == nil {
		return
	}
	iter := s.cache.Scan(ctx, 0, viewCachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		s.cache.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("Error scanning feed view cache", "error", err)
	}
}

func viewCacheKey(version uint64, q Query) string {
	v := url.Values{}
	v.Set("category", q.Category)
	v.Set("q", q.Text)
	v.Set("owner", string(q.Owner))
	v.Set("actor", q.ActorID)
	if q.Origin != nil {
		v.Set("lat", strconv.FormatFloat(q.Origin.Latitude, 'f', -1, 64))
		v.Set("lng", strconv.FormatFloat(q.Origin.Longitude, 'f', -1, 64))
	}
	return fmt.Sprintf("%sv%d:%s", viewCachePrefix, version, v.Encode())
}
