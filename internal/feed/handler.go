package feed

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"dishfeed/internal/auth"
	"dishfeed/internal/geo"

	"github.com/gin-gonic/gin"
)

var errInvalidOrigin = errors.New("lat and lng must both be valid coordinates")

// OriginSource supplies the device position when the request carries none
type OriginSource interface {
	Origin() (geo.Coordinates, bool)
}

// ImageResolver turns a stored image_ref into a URL the client can open and
// releases refs a dish no longer points at
type ImageResolver interface {
	ImageURL(ctx context.Context, ref string) string
	Release(ctx context.Context, ref string)
}

// Response is the envelope for every feed endpoint
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// CreateDishRequest is the payload for POST /dishes
type CreateDishRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	PlaceName   string           `json:"place_name" binding:"required"`
	Address     string           `json:"address"`
	Location    *geo.Point       `json:"location"`
	ImageRef    string           `json:"image_ref"`
}

// UpdateDishRequest is the payload for PATCH /dishes/:id
type UpdateDishRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category"`
	PlaceName     *string          `json:"place_name"`
	Address       *string          `json:"address"`
	ImageRef      *string          `json:"image_ref"`
	Location      *geo.Point       `json:"location"`
	ClearLocation bool             `json:"clear_location"`
}

// CommentRequest is the payload for POST /dishes/:id/comments
type CommentRequest struct {
	Text string `json:"text"`
}

// CommentView is a comment as shown to the current actor
type CommentView struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// DishView is a post as shown to the current actor
type DishView struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Category     string           `json:"category"`
	PlaceName    string           `json:"place_name"`
	Address      string           `json:"address"`
	Location     *geo.Coordinates `json:"location,omitempty"`
	ImageURL     string           `json:"image_url"`
	OwnerID      string           `json:"owner_id"`
	LikeCount    int              `json:"like_count"`
	Liked        bool             `json:"liked"`
	CreatedAt    time.Time        `json:"created_at"`
	Comments     []CommentView    `json:"comments"`
	DistanceKm   *float64         `json:"distance_km,omitempty"`
	DistanceText string           `json:"distance_text,omitempty"`
	MapsURL      string           `json:"maps_url"`
}

// CommentResult reports whether a comment was stored
type CommentResult struct {
	Applied bool         `json:"applied"`
	Comment *CommentView `json:"comment,omitempty"`
}

// Handler handles HTTP requests for the dish feed
type Handler struct {
	service *Service
	origin  OriginSource
	images  ImageResolver
}

// NewHandler creates a feed handler. origin and images may be nil.
func NewHandler(service *Service, origin OriginSource, images ImageResolver) *Handler {
	return &Handler{service: service, origin: origin, images: images}
}

// List handles GET /dishes
func (h *Handler) List(c *gin.Context) {
	actor := auth.CurrentActor(c)

	q := Query{
		Category: c.DefaultQuery("category", AllCategories),
		Text:     c.Query("q"),
		Owner:    OwnerAll,
		ActorID:  actor.ID,
	}

	switch owner := OwnerFilter(c.DefaultQuery("owner", string(OwnerAll))); owner {
	case OwnerAll, OwnerMine:
		q.Owner = owner
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "owner must be 'all' or 'mine'",
		})
		return
	}

	origin, err := h.parseOrigin(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}
	q.Origin = origin

	entries := h.service.View(c.Request.Context(), q)

	views := make([]DishView, 0, len(entries))
	for _, e := range entries {
		views = append(views, h.render(c, e.Post, e.DistanceKm))
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    views,
	})
}

// Categories handles GET /dishes/categories
func (h *Handler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    Categories,
	})
}

// Get handles GET /dishes/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	post, found := h.service.Get(id)
	if !found {
		notFound(c)
		return
	}

	var dist *float64
	if origin, err := h.parseOrigin(c); err == nil && origin != nil && post.Location != nil {
		d := geo.DistanceKm(*origin, *post.Location)
		dist = &d
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.render(c, post, dist),
	})
}

// Create handles POST /dishes
func (h *Handler) Create(c *gin.Context) {
	var req CreateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
		})
		return
	}
	location, ok := bindLocation(c, req.Location)
	if !ok {
		return
	}

	actor := auth.CurrentActor(c)
	post := h.service.Create(c.Request.Context(), actor.ID, NewPost{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PlaceName:   req.PlaceName,
		Address:     req.Address,
		Location:    location,
		ImageRef:    req.ImageRef,
	})

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: "Dish posted successfully",
		Data:    h.render(c, post, nil),
	})
}

// Update handles PATCH /dishes/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
		})
		return
	}
	location, ok := bindLocation(c, req.Location)
	if !ok {
		return
	}

	before, _ := h.service.Get(id)

	actor := auth.CurrentActor(c)
	post, outcome := h.service.Edit(c.Request.Context(), actor.ID, id, PostPatch{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		PlaceName:     req.PlaceName,
		Address:       req.Address,
		ImageRef:      req.ImageRef,
		Location:      location,
		ClearLocation: req.ClearLocation,
	})
	if outcome == OutcomeNotFound {
		notFound(c)
		return
	}

	if h.images != nil && before.ImageRef != "" && before.ImageRef != post.ImageRef {
		h.images.Release(c.Request.Context(), before.ImageRef)
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Dish updated successfully",
		Data:    h.render(c, post, nil),
	})
}

// ToggleLike handles POST /dishes/:id/like
func (h *Handler) ToggleLike(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	actor := auth.CurrentActor(c)
	post, outcome := h.service.ToggleLike(c.Request.Context(), actor.ID, id)
	if outcome == OutcomeNotFound {
		notFound(c)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"id":         post.ID,
			"liked":      post.LikedByCurrentActor,
			"like_count": post.LikeCount,
		},
	})
}

// AddComment handles POST /dishes/:id/comments
func (h *Handler) AddComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
		})
		return
	}

	actor := auth.CurrentActor(c)
	comment, outcome := h.service.AddComment(c.Request.Context(), actor.ID, id, actorName(actor), req.Text, true)

	switch outcome {
	case OutcomeNotFound:
		notFound(c)
	case OutcomeEmptyInput:
		c.JSON(http.StatusOK, Response{
			Success: true,
			Data:    CommentResult{Applied: false},
		})
	default:
		view := renderComment(comment, profileOf(actor))
		c.JSON(http.StatusCreated, Response{
			Success: true,
			Data:    CommentResult{Applied: true, Comment: &view},
		})
	}
}

// bindLocation converts an optional client point into coordinates. It writes
// a 400 and returns false when only one component is set or either is out of range.
func bindLocation(c *gin.Context, p *geo.Point) (*geo.Coordinates, bool) {
	if p == nil {
		return nil, true
	}
	coords, ok := p.Coordinates()
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "location needs both latitude and longitude in range",
		})
		return nil, false
	}
	return &coords, true
}

func (h *Handler) parseOrigin(c *gin.Context) (*geo.Coordinates, error) {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr == "" && lngStr == "" {
		if h.origin != nil {
			if o, ok := h.origin.Origin(); ok {
				return &o, nil
			}
		}
		return nil, nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, errInvalidOrigin
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, errInvalidOrigin
	}
	o := geo.Coordinates{Latitude: lat, Longitude: lng}
	if !o.Valid() {
		return nil, errInvalidOrigin
	}
	return &o, nil
}

func (h *Handler) render(c *gin.Context, p Post, distanceKm *float64) DishView {
	profile := profileOf(auth.CurrentActor(c))

	imageURL := p.ImageRef
	if h.images != nil {
		imageURL = h.images.ImageURL(c.Request.Context(), p.ImageRef)
	}

	v := DishView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		PlaceName:   p.PlaceName,
		Address:     p.Address,
		Location:    p.Location,
		ImageURL:    imageURL,
		OwnerID:     p.OwnerID,
		LikeCount:   p.LikeCount,
		Liked:       p.LikedByCurrentActor,
		CreatedAt:   p.CreatedAt,
		Comments:    make([]CommentView, 0, len(p.Comments)),
		DistanceKm:  distanceKm,
		MapsURL:     geo.MapsURL(p.Location, p.Address),
	}
	if distanceKm != nil {
		v.DistanceText = geo.FormatDistance(*distanceKm)
	}
	for _, cm := range p.Comments {
		v.Comments = append(v.Comments, renderComment(cm, profile))
	}
	return v
}

func renderComment(cm Comment, profile Profile) CommentView {
	return CommentView{
		ID:        cm.ID,
		Author:    ResolveAuthor(cm.Author, profile),
		Text:      cm.Text,
		CreatedAt: cm.CreatedAt,
	}
}

func profileOf(a auth.Actor) Profile {
	if a.IsGuest() {
		return Profile{}
	}
	return Profile{Username: a.Username, DisplayName: a.DisplayName}
}

func actorName(a auth.Actor) string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Username
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Invalid dish ID",
		})
		return 0, false
	}
	return id, true
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{
		Success: false,
		Error:   "Dish not found",
	})
}
