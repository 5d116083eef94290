package providers

import "time"

// Provider is a verified healthcare provider stored on the platform.
// This table is owned by the booking subsystem; the nearby-search pipeline
// only ever reads it.
type Provider struct {
	ID              string     `json:"id"`
	UserID          string     `json:"-"`
	Name            string     `json:"name"`
	Specialty       string     `json:"specialty"`
	Experience      int        `json:"experience"`
	Rating          float64    `json:"rating"`
	Reviews         int        `json:"reviews"`
	Address         string     `json:"address"`
	PhoneNumber     string     `json:"phone_number"`
	Email           string     `json:"email"`
	Latitude        *float64   `json:"latitude"`
	Longitude       *float64   `json:"longitude"`
	LicenseNumber   string     `json:"license_number,omitempty"`
	ConsultationFee *float64   `json:"consultation_fee,omitempty"`
	IsAvailable     bool       `json:"is_available"`
	IsVerified      bool       `json:"is_verified"`
	ClinicName      string     `json:"clinic_name,omitempty"`
	Qualifications  string     `json:"qualifications,omitempty"`
	Bio             string     `json:"bio,omitempty"`
	ProfileImage    string     `json:"profile_image,omitempty"`
	OperatingHours  string     `json:"operating_hours,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ProfileUpdate carries the fields a provider may edit on their own profile.
// Verification is admin-controlled and deliberately absent.
type ProfileUpdate struct {
	Name            *string  `json:"name"`
	Specialty       *string  `json:"specialty"`
	Experience      *int     `json:"experience"`
	Address         *string  `json:"address"`
	PhoneNumber     *string  `json:"phone_number"`
	Email           *string  `json:"email"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	LicenseNumber   *string  `json:"license_number"`
	ConsultationFee *float64 `json:"consultation_fee"`
	IsAvailable     *bool    `json:"is_available"`
	ClinicName      *string  `json:"clinic_name"`
	Qualifications  *string  `json:"qualifications"`
	Bio             *string  `json:"bio"`
	ProfileImage    *string  `json:"profile_image"`
	OperatingHours  *string  `json:"operating_hours"`
}

func (u *ProfileUpdate) apply(p *Provider) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Specialty != nil {
		p.Specialty = *u.Specialty
	}
	if u.Experience != nil {
		p.Experience = *u.Experience
	}
	if u.Address != nil {
		p.Address = *u.Address
	}
	if u.PhoneNumber != nil {
		p.PhoneNumber = *u.PhoneNumber
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Latitude != nil {
		p.Latitude = u.Latitude
	}
	if u.Longitude != nil {
		p.Longitude = u.Longitude
	}
	if u.LicenseNumber != nil {
		p.LicenseNumber = *u.LicenseNumber
	}
	if u.ConsultationFee != nil {
		p.ConsultationFee = u.ConsultationFee
	}
	if u.IsAvailable != nil {
		p.IsAvailable = *u.IsAvailable
	}
	if u.ClinicName != nil {
		p.ClinicName = *u.ClinicName
	}
	if u.Qualifications != nil {
		p.Qualifications = *u.Qualifications
	}
	if u.Bio != nil {
		p.Bio = *u.Bio
	}
	if u.ProfileImage != nil {
		p.ProfileImage = *u.ProfileImage
	}
	if u.OperatingHours != nil {
		p.OperatingHours = *u.OperatingHours
	}
}
