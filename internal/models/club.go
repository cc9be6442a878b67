package models

import "time"

type Club struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Address      string    `json:"address"`
	DayTime      string    `json:"day_time"`
	TrainerName  string    `json:"trainer_name"`
	TrainerEmail string    `json:"trainer_email"`
	TrainerPhone string    `json:"trainer_phone"`
	Web          string    `json:"web"`
	AgeFrom      int       `json:"age_from"`
	AgeTo        int       `json:"age_to"`
	Level        string    `json:"level"`
	Capacity     int       `json:"capacity"`
	Price        float64   `json:"price"`
	PricePeriod  string    `json:"price_period"`
	Image        *string   `json:"image,omitempty"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Moderation
}
