package models

import "time"

type Trainer struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Bio            string    `json:"bio"`
	Specialization string    `json:"specialization"`
	Experience     int       `json:"experience"`
	Image          *string   `json:"image,omitempty"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Moderation
}
