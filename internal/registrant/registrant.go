// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package registrant manages the contact records submitted through the public
registration form.

Architecture:

  - Registration: pure validation of the anonymous form payload.
  - Service: orchestrates validation, IP geolocation and persistence.
  - Repository: PostgreSQL and in-memory drivers behind one interface.
  - Projection: the admin panel's search/filter/sort view over a snapshot.
  - Export: the CSV rendering of all records.

Email uniqueness is enforced by the store (database constraint or memory
index) so two concurrent registrations cannot both succeed.
*/
package registrant

import (
	"strings"
	"time"

	"github.com/taibuivan/roster/internal/platform/validate"
	"github.com/taibuivan/roster/pkg/pointer"
)

// # Entity

// User is a registration record.
type User struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Mobile     string    `json:"mobile"`
	Address    string    `json:"address"`
	IPAddress  *string   `json:"ipAddress"`
	IPLocation *string   `json:"ipLocation"`
	CreatedAt  time.Time `json:"createdAt"`
}

// clone returns a copy that shares no pointers with u.
func (u *User) clone() *User {
	copied := *u
	copied.IPAddress = pointer.Clone(u.IPAddress)
	copied.IPLocation = pointer.Clone(u.IPLocation)
	return &copied
}

// # Field Identifiers

// JSON field names, used in validation details and as sort keys.
const (
	FieldID         = "id"
	FieldName       = "name"
	FieldEmail      = "email"
	FieldMobile     = "mobile"
	FieldAddress    = "address"
	FieldIPAddress  = "ipAddress"
	FieldIPLocation = "ipLocation"
	FieldCreatedAt  = "createdAt"
)

// # Field Rules

const (
	minNameLength    = 2
	minMobileLength  = 6
	minAddressLength = 5

	maxNameLength    = 120
	maxEmailLength   = 254
	maxMobileLength  = 32
	maxAddressLength = 500
	maxIPFieldLength = 255
)

// UnknownIP is stored when the client address cannot be determined.
const UnknownIP = "Unknown"

// # Inputs

// RegisterInput is the anonymous registration payload plus the caller's IP.
type RegisterInput struct {
	Name      string
	Email     string
	Mobile    string
	Address   string
	IPAddress string
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Name       *string
	Email      *string
	Mobile     *string
	Address    *string
	IPAddress  *string
	IPLocation *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Mobile == nil &&
		p.Address == nil && p.IPAddress == nil && p.IPLocation == nil
}

// # Validation

/*
ValidateRegistration checks a registration payload and returns it trimmed.

Rules:
  - name: required, at least 2 characters
  - email: required, a bare address
  - mobile: required, at least 6 characters
  - address: required, at least 5 characters

Every failing field is reported in the error details.
*/
func ValidateRegistration(input RegisterInput) (RegisterInput, error) {
	cleaned := RegisterInput{
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Mobile:    strings.TrimSpace(input.Mobile),
		Address:   strings.TrimSpace(input.Address),
		IPAddress: strings.TrimSpace(input.IPAddress),
	}

	validator := &validate.Validator{}
	checkName(validator, cleaned.Name)
	checkEmail(validator, cleaned.Email)
	checkMobile(validator, cleaned.Mobile)
	checkAddress(validator, cleaned.Address)

	if err := validator.Err(); err != nil {
		return RegisterInput{}, err
	}

	if cleaned.IPAddress == "" {
		cleaned.IPAddress = UnknownIP
	}
	return cleaned, nil
}

// ValidatePatch applies the registration rules to the fields a patch sets.
func ValidatePatch(patch Patch) (Patch, error) {
	cleaned := Patch{
		Name:       trimmed(patch.Name),
		Email:      trimmed(patch.Email),
		Mobile:     trimmed(patch.Mobile),
		Address:    trimmed(patch.Address),
		IPAddress:  trimmed(patch.IPAddress),
		IPLocation: trimmed(patch.IPLocation),
	}

	validator := &validate.Validator{}
	if cleaned.Name != nil {
		checkName(validator, *cleaned.Name)
	}
	if cleaned.Email != nil {
		checkEmail(validator, *cleaned.Email)
	}
	if cleaned.Mobile != nil {
		checkMobile(validator, *cleaned.Mobile)
	}
	if cleaned.Address != nil {
		checkAddress(validator, *cleaned.Address)
	}
	if cleaned.IPAddress != nil {
		validator.MaxLen(FieldIPAddress, *cleaned.IPAddress, maxIPFieldLength)
	}
	if cleaned.IPLocation != nil {
		validator.MaxLen(FieldIPLocation, *cleaned.IPLocation, maxIPFieldLength)
	}

	if err := validator.Err(); err != nil {
		return Patch{}, err
	}
	return cleaned, nil
}

func checkName(validator *validate.Validator, name string) {
	if name == "" {
		validator.Required(FieldName, name)
		return
	}
	validator.MinLen(FieldName, name, minNameLength).MaxLen(FieldName, name, maxNameLength)
}

func checkEmail(validator *validate.Validator, email string) {
	if email == "" {
		validator.Required(FieldEmail, email)
		return
	}
	validator.Email(FieldEmail, email).MaxLen(FieldEmail, email, maxEmailLength)
}

func checkMobile(validator *validate.Validator, mobile string) {
	if mobile == "" {
		validator.Required(FieldMobile, mobile)
		return
	}
	validator.MinLen(FieldMobile, mobile, minMobileLength).MaxLen(FieldMobile, mobile, maxMobileLength)
}

func checkAddress(validator *validate.Validator, address string) {
	if address == "" {
		validator.Required(FieldAddress, address)
		return
	}
	validator.MinLen(FieldAddress, address, minAddressLength).MaxLen(FieldAddress, address, maxAddressLength)
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	return pointer.To(strings.TrimSpace(*value))
}
