package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fareRequest struct {
	PickupAddress string `validate:"required"`
	VehicleType   string `validate:"required,vehicle_type"`
}

type paymentRequest struct {
	Party  string `validate:"required,payment_party"`
	Action string `validate:"required,payment_action"`
}

func TestValidateStruct_VehicleType(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"standard", "standard", false},
		{"suv", "suv", false},
		{"premium", "premium", false},
		{"mixed case and whitespace", "  Premium ", false},
		{"unsupported", "rickshaw", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&fareRequest{PickupAddress: "Downtown", VehicleType: tt.value})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateStruct_PaymentTags(t *testing.T) {
	assert.NoError(t, ValidateStruct(&paymentRequest{Party: "rider", Action: "confirm"}))
	assert.NoError(t, ValidateStruct(&paymentRequest{Party: "driver", Action: "dispute"}))
	assert.Error(t, ValidateStruct(&paymentRequest{Party: "admin", Action: "confirm"}))
	assert.Error(t, ValidateStruct(&paymentRequest{Party: "rider", Action: "refund"}))
}

func TestValidateStruct_FieldErrorsAreNamed(t *testing.T) {
	err := ValidateStruct(&fareRequest{VehicleType: "standard"})

	valErr, ok := err.(*ValidationError)
	assert.True(t, ok)
	assert.Contains(t, valErr.Errors, "PickupAddress")
}
