package dto

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Designation string `json:"designation"`
}

type RefreshTokenRequest struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type ValidateTokenRequest struct {
	Token string `json:"token"`
}

type ValidateTokenResponse struct {
	Valid bool `json:"valid"`
}

type RegisterResponse struct {
	Registered bool `json:"registered"`
}

type AuthResponse struct {
	AccessToken           string      `json:"accessToken"`
	RefreshToken          string      `json:"refreshToken"`
	AccessTokenExpiresAt  int64       `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt int64       `json:"refreshTokenExpiresAt"`
	User                  UserProfile `json:"user"`
}

type UserProfile struct {
	ID              int64    `json:"id"`
	ExternalID      string   `json:"externalId"`
	Username        string   `json:"username"`
	Email           string   `json:"email"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	PhoneNumber     *string  `json:"phoneNumber"`
	Designation     *string  `json:"designation"`
	IsEmailVerified bool     `json:"isEmailVerified"`
	IsPhoneVerified bool     `json:"isPhoneVerified"`
	LastLogin       *int64   `json:"lastLogin"`
	Roles           []string `json:"roles"`
}
