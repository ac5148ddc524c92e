// File: internal/buckets/profile.go

// Package buckets is the registry of named bucket connection profiles.
package buckets

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Profile maps a user-chosen alias to the credentials of one remote bucket
type Profile struct {
	Alias       string `json:"alias" yaml:"alias" validate:"required"`
	BucketName  string `json:"bucketName" yaml:"bucketName" validate:"required"`
	AccessKey   string `json:"accessKey" yaml:"accessKey"`
	SecretKey   string `json:"secretKey" yaml:"secretKey"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Region      string `json:"region,omitempty" yaml:"region,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (p Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid bucket profile %q: %w", p.Alias, err)
	}
	return nil
}

type AddOutcome int

const (
	Added AddOutcome = iota
	AlreadyExists
	// Rejected means the profile was not stored: it failed validation or could not be saved
	Rejected
)

func (o AddOutcome) String() string {
	switch o {
	case Added:
		return "added"
	case AlreadyExists:
		return "already exists"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

type RemoveOutcome int

const (
	Removed RemoveOutcome = iota
	NotFound
)

func (o RemoveOutcome) String() string {
	switch o {
	case Removed:
		return "removed"
	case NotFound:
		return "not found"
	default:
		return "unknown"
	}
}
