// Package wire holds the request and response messages of the Mystery Card
// service and the JSON codec both ends use to carry them over gRPC.
package wire

import "time"

type Empty struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AdminKeyRequest struct {
	Key string `json:"key"`
}

type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	AccountID int64     `json:"account_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
}

type AccountView struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type AccountResponse struct {
	Account AccountView `json:"account"`
}

type AccountListResponse struct {
	Accounts []AccountView `json:"accounts"`
}

type AccountIDRequest struct {
	ID int64 `json:"id"`
}

type UpdateProfileRequest struct {
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

type UpdateAccountRequest struct {
	ID       int64   `json:"id"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	IsAdmin  *bool   `json:"is_admin,omitempty"`
}

type MysteryCardResponse struct {
	CardID   int64  `json:"card_id"`
	ImageURL string `json:"image_url"`
}

type GuessRequest struct {
	CardID       int64  `json:"card_id"`
	Type         string `json:"type"`
	Level        int    `json:"level"`
	ElementClass string `json:"element_class"`
}

type FieldResults struct {
	Type         bool `json:"type"`
	Level        bool `json:"level"`
	ElementClass bool `json:"element_class"`
}

// GuessResponse carries CardName and ImageURL only for a correct guess.
type GuessResponse struct {
	AllCorrect bool         `json:"all_correct"`
	Results    FieldResults `json:"results"`
	CardName   string       `json:"card_name,omitempty"`
	ImageURL   string       `json:"image_url,omitempty"`
}

type CardView struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	HiddenImageRef   string `json:"hidden_image"`
	RevealedImageRef string `json:"revealed_image"`
	HiddenImageURL   string `json:"hidden_image_url,omitempty"`
	RevealedImageURL string `json:"revealed_image_url,omitempty"`
	Type             string `json:"type"`
	Level            int    `json:"level"`
	ElementClass     string `json:"element_class"`
}

type CardRequest struct {
	Name             string `json:"name"`
	HiddenImageRef   string `json:"hidden_image"`
	RevealedImageRef string `json:"revealed_image"`
	Type             string `json:"type"`
	Level            int    `json:"level"`
	ElementClass     string `json:"element_class"`
}

type UpdateCardRequest struct {
	ID               int64   `json:"id"`
	Name             *string `json:"name,omitempty"`
	HiddenImageRef   *string `json:"hidden_image,omitempty"`
	RevealedImageRef *string `json:"revealed_image,omitempty"`
	Type             *string `json:"type,omitempty"`
	Level            *int    `json:"level,omitempty"`
	ElementClass     *string `json:"element_class,omitempty"`
}

type CardIDRequest struct {
	ID int64 `json:"id"`
}

type CardResponse struct {
	Card CardView `json:"card"`
}

type CardListResponse struct {
	Cards []CardView `json:"cards"`
}

type ImageUploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
