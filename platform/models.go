package platform

// Hub is an upstream organizational container that owns projects.
type Hub struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region,omitempty"`
}

// Project is an upstream project inside a hub. Local Project records
// reference these by id; the platform remains the source of truth for them.
type Project struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	HubID string `json:"hubId"`
}

// UserProfile is a read-only projection of the authenticated platform
// identity. It lives only for the application lifetime and is never cached
// to durable storage.
type UserProfile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}
