package models

import "time"

type Inquiry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	ProjectType *string   `json:"projectType,omitempty"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
}
