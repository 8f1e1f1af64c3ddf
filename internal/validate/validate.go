// Package validate performs input-shape validation and aggregates
// field-level messages. Uniqueness is not checked here; the store's
// constraints own that and violations surface as validation conflicts.
package validate

import (
	"regexp"
	"strings"

	"storefront-api/internal/model"
)

var (
	emailRe     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRe  = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	nameRe      = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	passwordSet = "@$!%*?&"
)

func Signup(req model.SignupRequest) []string {
	var errs []string

	switch {
	case req.Username == "":
		errs = append(errs, "Username is required")
	case len(req.Username) < 5 || len(req.Username) > 50:
		errs = append(errs, "Username must be between 5 and 50 characters")
	case !usernameRe.MatchString(req.Username):
		errs = append(errs, "Username can only contain letters, numbers, and underscores")
	}

	switch {
	case req.Email == "":
		errs = append(errs, "Email is required")
	case !emailRe.MatchString(req.Email):
		errs = append(errs, "Invalid email format")
	}

	switch {
	case req.Password == "":
		errs = append(errs, "Password is required")
	case !PasswordStrength(req.Password):
		errs = append(errs, "Password must be at least 8 characters long and include uppercase, lowercase, number, and special character")
	}

	switch {
	case req.FirstName == "":
		errs = append(errs, "First name is required")
	case len(req.FirstName) < 2 || len(req.FirstName) > 150:
		errs = append(errs, "First name must be between 2 and 150 characters")
	case !nameRe.MatchString(req.FirstName):
		errs = append(errs, "First name can only contain letters")
	}

	if req.LastName != "" {
		switch {
		case len(req.LastName) < 2 || len(req.LastName) > 150:
			errs = append(errs, "Last name must be between 2 and 150 characters")
		case !nameRe.MatchString(req.LastName):
			errs = append(errs, "Last name can only contain letters")
		}
	}

	return errs
}

func Signin(req model.SigninRequest) []string {
	var errs []string

	if req.Login == "" {
		errs = append(errs, "Login (username or email) is required")
	} else if len(req.Login) < 3 || len(req.Login) > 50 {
		errs = append(errs, "Login must be between 3 and 50 characters")
	}

	if req.Password == "" {
		errs = append(errs, "Password is required")
	} else if len(req.Password) < 8 || len(req.Password) > 255 {
		errs = append(errs, "Password must be between 8 and 255 characters")
	}

	return errs
}

func UserUpdate(req model.UpdateUserRequest) []string {
	var errs []string

	if req.Username != nil {
		switch {
		case len(*req.Username) < 5 || len(*req.Username) > 50:
			errs = append(errs, "Username must be between 5 and 50 characters")
		case !usernameRe.MatchString(*req.Username):
			errs = append(errs, "Username can only contain letters, numbers, and underscores")
		}
	}

	if req.Email != nil && !emailRe.MatchString(*req.Email) {
		errs = append(errs, "Invalid email format")
	}

	if req.FirstName != nil {
		switch {
		case len(*req.FirstName) < 2 || len(*req.FirstName) > 150:
			errs = append(errs, "First name must be between 2 and 150 characters")
		case !nameRe.MatchString(*req.FirstName):
			errs = append(errs, "First name can only contain letters")
		}
	}

	if req.LastName != nil {
		switch {
		case len(*req.LastName) < 2 || len(*req.LastName) > 150:
			errs = append(errs, "Last name must be between 2 and 150 characters")
		case !nameRe.MatchString(*req.LastName):
			errs = append(errs, "Last name can only contain letters")
		}
	}

	return errs
}

func PasswordChange(req model.UpdatePasswordRequest) []string {
	var errs []string

	if req.CurrentPassword == "" {
		errs = append(errs, "Current password is required")
	}
	if req.NewPassword == "" {
		errs = append(errs, "New password is required")
	}
	if req.ConfirmNewPassword == "" {
		errs = append(errs, "Confirm new password is required")
	}
	if req.NewPassword != "" && req.ConfirmNewPassword != "" && req.NewPassword != req.ConfirmNewPassword {
		errs = append(errs, "New passwords do not match")
	}
	if req.NewPassword != "" && !PasswordStrength(req.NewPassword) {
		errs = append(errs, "Password must include uppercase, lowercase, number, and special character")
	}

	return errs
}

// PasswordStrength requires at least 8 characters with one uppercase letter,
// one lowercase letter, one digit, and one symbol from @$!%*?&. Characters
// outside those classes are rejected.
func PasswordStrength(pw string) bool {
	if len(pw) < 8 {
		return false
	}

	var upper, lower, digit, symbol bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSet, r):
			symbol = true
		default:
			return false
		}
	}

	return upper && lower && digit && symbol
}

func Product(req model.ProductRequest) []string {
	var errs []string

	if req.Name == "" {
		errs = append(errs, "Name is required")
	}
	if req.Price == nil {
		errs = append(errs, "Price is required")
	} else if *req.Price < 0 {
		errs = append(errs, "Price must be a non-negative number")
	}
	if req.Category == "" {
		errs = append(errs, "Category is required")
	}

	return errs
}
