package dto

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type RefreshTokenOutput struct {
	User        UserOutput `json:"user"`
	AccessToken string     `json:"accessToken"`
}

type RevokeOutput struct {
	Message string `json:"message"`
}
