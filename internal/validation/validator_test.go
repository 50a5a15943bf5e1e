package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupInput struct {
	Username string `form:"username" validate:"required,alphanum,max=150"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      signupInput
		wantFields []string
	}{
		{
			name:  "Valid input",
			input: signupInput{Username: "sarah", Email: "connor.s@skynet.com", Password: "12345678"},
		},
		{
			name:       "Missing username",
			input:      signupInput{Email: "connor.s@skynet.com", Password: "12345678"},
			wantFields: []string{"username"},
		},
		{
			name:       "Bad email and short password",
			input:      signupInput{Username: "sarah", Email: "nope", Password: "123"},
			wantFields: []string{"email", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var fe FieldErrors
			require.True(t, errors.As(err, &fe))
			assert.Len(t, fe, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.True(t, fe.Has(f), "expected error on %s", f)
			}
		})
	}
}

func TestFieldErrors(t *testing.T) {
	fe := FieldErrors{}
	assert.False(t, fe.Any())
	assert.Equal(t, "", fe.First("text"))

	fe.Add("text", "This field is required.")
	fe.Add("image", "Upload a valid image.")

	assert.True(t, fe.Any())
	assert.Equal(t, "This field is required.", fe.First("text"))
	assert.Equal(t, "image: Upload a valid image.; text: This field is required.", fe.Error())
}
