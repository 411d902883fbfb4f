package models

import "time"

type Service struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       *string   `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ProjectType string

const (
	ProjectTypeCommercial     ProjectType = "Commercial"
	ProjectTypeResidential    ProjectType = "Residential"
	ProjectTypeInfrastructure ProjectType = "Infrastructure"
	ProjectTypeIndustrial     ProjectType = "Industrial"
)

func (t ProjectType) Valid() bool {
	switch t {
	case ProjectTypeCommercial, ProjectTypeResidential, ProjectTypeInfrastructure, ProjectTypeIndustrial:
		return true
	}
	return false
}

type Project struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Location    *string      `json:"location,omitempty"`
	Year        *int         `json:"year,omitempty"`
	Type        *ProjectType `json:"type,omitempty"`
	Description string       `json:"description"`
	Image       *string      `json:"image,omitempty"`
	Badge       *string      `json:"badge,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// SiteConfig is the singleton document holding editable site text.
type SiteConfig struct {
	CompanyName    string    `json:"company_name"`
	HeroTagline    string    `json:"hero_tagline"`
	HeroSubtitle   string    `json:"hero_subtitle"`
	HeroButton     string    `json:"hero_button"`
	AboutIntro     string    `json:"about_intro"`
	VisionText     string    `json:"vision_text"`
	MissionText    string    `json:"mission_text"`
	ContactAddress string    `json:"contact_address"`
	ContactPhone   string    `json:"contact_phone"`
	ContactEmail   string    `json:"contact_email"`
	FooterText     string    `json:"footer_text"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
