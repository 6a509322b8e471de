package validation

// CreatePolicyRequest mirrors the fields needed for create validation.
type CreatePolicyRequest struct {
	Name string
}

// ReplacePolicyRequest mirrors the fields needed for full-replace validation.
type ReplacePolicyRequest struct {
	Name  string
	Owner string
}

// ValidateCreatePolicyRequest validates the fields of a create policy request.
func ValidateCreatePolicyRequest(req CreatePolicyRequest) []FieldError {
	var errs []FieldError

	if req.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(req.Name) > 200 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 200 characters"})
	}

	return errs
}

// ValidateReplacePolicyRequest validates the fields of a full replace. A
// replace must supply every mutable field, including the owner.
func ValidateReplacePolicyRequest(req ReplacePolicyRequest) []FieldError {
	var errs []FieldError

	if req.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(req.Name) > 200 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 200 characters"})
	}

	if req.Owner == "" {
		errs = append(errs, FieldError{Field: "owner", Message: "owner is required"})
	}

	return errs
}
