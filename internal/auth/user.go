package auth

import "time"

type User struct {
	ID                 int       `json:"id"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	FitnessGoal        *string   `json:"fitnessGoal"`
	Gender             *string   `json:"gender"`
	ExperienceLevel    *string   `json:"experienceLevel"`
	AvailableEquipment *string   `json:"availableEquipment"`
	TrainingFrequency  *string   `json:"trainingFrequency"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Profile holds the optional training preferences of a user. Empty values are stored as null.
type Profile struct {
	Goal       string `json:"goal"`
	Gender     string `json:"gender"`
	Experience string `json:"experience"`
	Equipment  string `json:"equipment"`
	Frequency  string `json:"frequency"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type AuthResult struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
