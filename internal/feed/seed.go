package feed

import "time"

// Seed loads the demo dishes shown on first launch
func Seed(s *Store) {
	now := s.now()
	at := func(ago time.Duration) *time.Time {
		t := now.Add(-ago)
		return &t
	}
	intp := func(v int) *int { return &v }
	boolp := func(v bool) *bool { return &v }
	legacy := ""

	s.Add(NewPost{
		Name:        "Sushi Platter",
		Description: "Fresh salmon sushi served beautifully.",
		Category:    "Japanese",
		ImageRef:    "asset:dish1.jpg",
		OwnerID:     &legacy,
		LikeCount:   intp(24),
		Liked:       boolp(false),
		CreatedAt:   at(2 * time.Hour),
		Comments: []Comment{
			{ID: 1, Author: LiteralAuthor("foodieMark"), Text: "Looks amazing!"},
			{ID: 2, Author: LiteralAuthor("sushiQueen"), Text: "This is my fave!"},
		},
	})
	s.Add(NewPost{
		Name:        "Creamy Carbonara",
		Description: "Rich and creamy pasta with parmesan.",
		Category:    "Italian",
		ImageRef:    "asset:dish2.jpg",
		OwnerID:     &legacy,
		LikeCount:   intp(18),
		Liked:       boolp(false),
		CreatedAt:   at(24 * time.Hour),
		Comments: []Comment{
			{ID: 1, Author: LiteralAuthor("chefRon"), Text: "Perfect texture!"},
		},
	})
	s.Add(NewPost{
		Name:        "Chicken Adobo",
		Description: "Classic Filipino dish with soy + vinegar.",
		Category:    "Filipino",
		ImageRef:    "asset:dish3.jpg",
		OwnerID:     &legacy,
		LikeCount:   intp(50),
		Liked:       boolp(true),
		CreatedAt:   at(72 * time.Hour),
		Comments: []Comment{
			{ID: 1, Author: LiteralAuthor("pinoyFoodLover"), Text: "Sarap nito!"},
			{ID: 2, Author: LiteralAuthor("maria"), Text: "Luto mo ba to? haha"},
		},
	})
}
