package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront-api/internal/model"
)

func TestPasswordStrength(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"Abc123!@", true},
		{"Xy9?longer", true},
		{"abc12345", false}, // no uppercase, no symbol
		{"ABC123!@", false}, // no lowercase
		{"Abcdef!@", false}, // no digit
		{"Abc12345", false}, // no symbol
		{"Ab1!", false},     // too short
		{"Abc123!@ space", false}, // space outside allowed set
	}

	for _, tc := range cases {
		assert.Equal(t, tc.ok, PasswordStrength(tc.password), "password %q", tc.password)
	}
}

func TestSignup(t *testing.T) {
	valid := model.SignupRequest{
		Username:  "alice123",
		Email:     "a@b.com",
		Password:  "Abc123!@",
		FirstName: "Alice",
	}
	assert.Empty(t, Signup(valid))

	t.Run("aggregates all field errors", func(t *testing.T) {
		errs := Signup(model.SignupRequest{})
		assert.Contains(t, errs, "Username is required")
		assert.Contains(t, errs, "Email is required")
		assert.Contains(t, errs, "Password is required")
		assert.Contains(t, errs, "First name is required")
	})

	t.Run("username shape", func(t *testing.T) {
		req := valid
		req.Username = "ab"
		assert.Contains(t, Signup(req), "Username must be between 5 and 50 characters")

		req.Username = "bad name!"
		assert.Contains(t, Signup(req), "Username can only contain letters, numbers, and underscores")
	})

	t.Run("email shape", func(t *testing.T) {
		req := valid
		req.Email = "not-an-email"
		assert.Contains(t, Signup(req), "Invalid email format")
	})

	t.Run("last name optional", func(t *testing.T) {
		req := valid
		req.LastName = ""
		assert.Empty(t, Signup(req))

		req.LastName = "X"
		assert.NotEmpty(t, Signup(req))
	})
}

func TestSignin(t *testing.T) {
	assert.Empty(t, Signin(model.SigninRequest{Login: "alice123", Password: "Abc123!@"}))

	errs := Signin(model.SigninRequest{})
	assert.Contains(t, errs, "Login (username or email) is required")
	assert.Contains(t, errs, "Password is required")

	errs = Signin(model.SigninRequest{Login: "ab", Password: "short"})
	assert.Contains(t, errs, "Login must be between 3 and 50 characters")
	assert.Contains(t, errs, "Password must be between 8 and 255 characters")
}

func TestPasswordChange(t *testing.T) {
	ok := model.UpdatePasswordRequest{
		CurrentPassword:    "Old123!@",
		NewPassword:        "New123!@",
		ConfirmNewPassword: "New123!@",
	}
	assert.Empty(t, PasswordChange(ok))

	mismatch := ok
	mismatch.ConfirmNewPassword = "Other123!@"
	assert.Contains(t, PasswordChange(mismatch), "New passwords do not match")

	weak := ok
	weak.NewPassword = "abc12345"
	weak.ConfirmNewPassword = "abc12345"
	assert.Contains(t, PasswordChange(weak), "Password must include uppercase, lowercase, number, and special character")

	missing := model.UpdatePasswordRequest{}
	errs := PasswordChange(missing)
	assert.Len(t, errs, 3)
}

func TestProduct(t *testing.T) {
	price := 9.99
	assert.Empty(t, Product(model.ProductRequest{Name: "Mouse", Price: &price, Category: "peripherals"}))

	errs := Product(model.ProductRequest{})
	assert.Contains(t, errs, "Name is required")
	assert.Contains(t, errs, "Price is required")
	assert.Contains(t, errs, "Category is required")

	negative := -1.0
	assert.Contains(t, Product(model.ProductRequest{Name: "x", Price: &negative, Category: "y"}),
		"Price must be a non-negative number")
}
