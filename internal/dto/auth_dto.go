package dto

import "github.com/google/uuid"

type FederationRegisterRequest struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest covers all three roles: federations log in with email,
// societies with code, residents with society code and email.
type LoginRequest struct {
	Code     string `json:"code"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

type SocietyRequest struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

type SocietyResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Code           string    `json:"code"`
	Address        string    `json:"address"`
	FederationCode string    `json:"federation_code"`
}

type FlatRequest struct {
	Number       string `json:"flat_number"`
	ResidentName string `json:"resident_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

type FlatResponse struct {
	ID          uuid.UUID `json:"id"`
	Number      string    `json:"flat_number"`
	SocietyCode string    `json:"society_code"`
	Resident    string    `json:"resident_name"`
	ResidentID  string    `json:"resident_id"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
	DB           string `json:"db"`
	Cache        string `json:"cache"`
	SocietyCount int    `json:"society_count"`
}
