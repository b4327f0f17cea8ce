package session

import (
	"errors"
	"fmt"

	"github.com/mementolabs/companion/pkg/audioasset"
)

// ErrValidation is returned when an enrollment draft is missing a required
// field.
var ErrValidation = errors.New("session: invalid enrollment draft")

// DefaultRelation is used when a person draft leaves the relation blank in
// flows that allow it (the caregiver wizard).
const DefaultRelation = "Acquaintance"

// Draft is a pending enrollment record. At most one draft is live at a
// time; it is created when the enrollment form opens and discarded on
// successful or cancelled submission.
type Draft struct {
	Kind SubjectKind

	// Name is required for both kinds.
	Name string

	// Relation is required for person drafts.
	Relation string

	// Age is optional, person drafts only.
	Age string

	// Notes are free-form.
	Notes string

	// Audio is an optional recorded voice sample, person drafts only.
	Audio *audioasset.Asset
}

// Validate checks required fields. Enrollment flows call this before the
// draft ever reaches the submission path.
func (d *Draft) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	switch d.Kind {
	case KindPerson:
		if d.Relation == "" {
			return fmt.Errorf("%w: relation is required for a person", ErrValidation)
		}
	case KindObject:
	default:
		return fmt.Errorf("%w: unknown subject kind %q", ErrValidation, d.Kind)
	}
	return nil
}
