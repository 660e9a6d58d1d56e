package assignment

import "github.com/datapolis/indicators-backend/internal/domain"

// GrantInput holds the parameters for a cross-product bulk grant.
type GrantInput struct {
	UserIDs      []int64
	IndicatorIDs []int64
	ActingUserID int64
}

// Validate checks all fields and collects all errors.
func (i GrantInput) Validate() error {
	var errs []domain.FieldError

	if len(i.UserIDs) == 0 {
		errs = append(errs, domain.FieldError{Field: "user_ids", Message: "at least one user required"})
	}
	if len(i.IndicatorIDs) == 0 {
		errs = append(errs, domain.FieldError{Field: "indicator_ids", Message: "at least one indicator required"})
	}
	if i.ActingUserID == 0 {
		errs = append(errs, domain.FieldError{Field: "acting_user_id", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RevokeInput holds the parameters for revoking assignments.
type RevokeInput struct {
	AssignmentIDs []int64
}

// Validate checks all fields and collects all errors.
func (i RevokeInput) Validate() error {
	if len(i.AssignmentIDs) == 0 {
		return domain.NewValidationError("assignment_ids", "at least one assignment required")
	}
	return nil
}

// TransferOwnershipInput holds the parameters for an ownership transfer.
type TransferOwnershipInput struct {
	NewOwnerUserID int64
	IndicatorID    int64
	ActingUserID   int64
}

// Validate checks all fields and collects all errors.
func (i TransferOwnershipInput) Validate() error {
	var errs []domain.FieldError

	if i.NewOwnerUserID == 0 {
		errs = append(errs, domain.FieldError{Field: "new_owner_user_id", Message: "required"})
	}
	if i.IndicatorID == 0 {
		errs = append(errs, domain.FieldError{Field: "indicator_id", Message: "required"})
	}
	if i.ActingUserID == 0 {
		errs = append(errs, domain.FieldError{Field: "acting_user_id", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ListByIndicatorInput holds the parameters for listing an indicator's assignments.
type ListByIndicatorInput struct {
	IndicatorID int64
	Page        int
	PerPage     int
}

// Validate checks all fields and collects all errors.
func (i ListByIndicatorInput) Validate() error {
	var errs []domain.FieldError

	if i.IndicatorID == 0 {
		errs = append(errs, domain.FieldError{Field: "indicator_id", Message: "required"})
	}
	if i.Page < 0 {
		errs = append(errs, domain.FieldError{Field: "page", Message: "must not be negative"})
	}
	if i.PerPage < 0 {
		errs = append(errs, domain.FieldError{Field: "per_page", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
