package models

import (
	"gorm.io/gorm"
)

// Age groups accepted on the registration form.
const (
	AgeGroupAdult = "adult"
	AgeGroupChild = "child"
)

// Attendee is one person enumerated on the registration form.
type Attendee struct {
	gorm.Model
	RegistrationID        uint   `json:"registration_id" gorm:"index"`
	FullName              string `json:"full_name"`
	Email                 string `json:"email,omitempty"`
	Phone                 string `json:"phone,omitempty"`
	AgeGroup              string `json:"age_group"`
	DietaryRestrictions   string `json:"dietary_restrictions,omitempty"`
	EmergencyContactName  string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string `json:"emergency_contact_phone,omitempty"`
}
