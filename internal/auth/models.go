package auth

// User is the single locally registered account
type User struct {
	Username    string `json:"username"`
	Password    string `json:"-"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	AvatarURI   string `json:"avatar_uri,omitempty"`
}

// Actor is whoever is using the app right now
type Actor struct {
	ID          string `json:"id"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// GuestID identifies the actor when nobody is signed in
const GuestID = "guest"

// GuestActor returns the actor used when nobody is signed in
func GuestActor() Actor {
	return Actor{ID: GuestID}
}

// IsGuest reports whether the actor is anonymous
func (a Actor) IsGuest() bool {
	return a.ID == GuestID || a.ID == ""
}

// CredentialsRequest is the request payload for register and login
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ProfilePatch is the request payload for updating the profile
type ProfilePatch struct {
	DisplayName *string `json:"display_name,omitempty" binding:"omitempty,max=50"`
	Bio         *string `json:"bio,omitempty" binding:"omitempty,max=300"`
	AvatarURI   *string `json:"avatar_uri,omitempty"`
}

// AuthResponse is the response after a successful login
type AuthResponse struct {
	User      *User  `json:"user"`
	SessionID string `json:"session_id"`
}
