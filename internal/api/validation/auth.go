package validation

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RegisterRequest mirrors the fields needed for register validation.
type RegisterRequest struct {
	Username string
	Password string
	Role     string
}

// LoginRequest mirrors the fields needed for login validation.
type LoginRequest struct {
	Username string
	Password string
}

// ValidateRegisterRequest validates the fields of a registration request.
// Role must be one of the closed set; arbitrary role strings are rejected
// rather than stored.
func ValidateRegisterRequest(req RegisterRequest) []FieldError {
	var errs []FieldError

	if req.Username == "" {
		errs = append(errs, FieldError{Field: "username", Message: "username is required"})
	} else if len(req.Username) > 100 {
		errs = append(errs, FieldError{Field: "username", Message: "username must be at most 100 characters"})
	}

	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}

	switch req.Role {
	case "":
		errs = append(errs, FieldError{Field: "role", Message: "role is required"})
	case "user", "admin":
	default:
		errs = append(errs, FieldError{Field: "role", Message: "role must be either \"user\" or \"admin\""})
	}

	return errs
}

// ValidateLoginRequest validates the fields of a login request.
func ValidateLoginRequest(req LoginRequest) []FieldError {
	var errs []FieldError

	if req.Username == "" {
		errs = append(errs, FieldError{Field: "username", Message: "username is required"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}

	return errs
}
