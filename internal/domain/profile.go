package domain

// Profile is the application-owned row in profiles, one-to-one with a user.
// A loaded profile must always satisfy UserID == current user id; entries
// belonging to a different user are discarded, never displayed.
type Profile struct {
	UserID      string  `json:"user_id"`
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
	Theme       *string `json:"theme"`
	UpdatedAt   *string `json:"updated_at"`
}

// UpdateProfileRequest carries the settings form fields.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
	Theme       *string `json:"theme"`
}
