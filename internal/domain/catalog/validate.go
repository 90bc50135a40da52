package catalog

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/okian/mergington/internal/domain/model"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func seedValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterStructValidation(activityCapacity, model.Activity{})
	})
	return validate
}

// activityCapacity rejects seeds whose roster already exceeds the advisory limit.
func activityCapacity(sl validator.StructLevel) {
	a, ok := sl.Current().Interface().(model.Activity)
	if !ok {
		return
	}
	if a.MaxParticipants > 0 && len(a.Participants) > a.MaxParticipants {
		sl.ReportError(a.Participants, "Participants", "participants", "max_participants", "")
	}
}

// Validate checks that names are unique and non-empty, capacities are
// positive, rosters hold no duplicates and no roster exceeds its capacity.
func Validate(s Seed) error {
	if err := seedValidator().Struct(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	return nil
}
