package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_StartRunRequest(t *testing.T) {
	InitValidator()
	v := GetValidator()

	tests := []struct {
		name    string
		req     StartRunRequest
		wantErr bool
	}{
		{"empty mode means normal", StartRunRequest{}, false},
		{"daily", StartRunRequest{Mode: "daily"}, false},
		{"weekly with perks", StartRunRequest{Mode: "weekly", PerkIDs: []string{"arc_synth"}}, false},
		{"unknown mode", StartRunRequest{Mode: "hardcore"}, true},
		{"too many perks", StartRunRequest{PerkIDs: make([]string, 9)}, true},
		{"perk id too long", StartRunRequest{PerkIDs: []string{strings.Repeat("x", 65)}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_CompleteRunRequest(t *testing.T) {
	v := GetValidator()
	score := 10.0

	assert.NoError(t, v.ValidateStruct(CompleteRunRequest{Ticket: "t", Score: &score}))
	assert.Error(t, v.ValidateStruct(CompleteRunRequest{Score: &score}), "ticket required")
	assert.Error(t, v.ValidateStruct(CompleteRunRequest{Ticket: "t"}), "score required")
}

func TestFormatValidationError(t *testing.T) {
	v := GetValidator()

	err := v.ValidateStruct(StartRunRequest{Mode: "hardcore"})
	require.Error(t, err)
	fields := FormatValidationError(err)
	assert.Equal(t, "Must be one of normal, daily, weekly", fields["mode"])

	err = v.ValidateStruct(EquipPerkRequest{})
	require.Error(t, err)
	assert.Equal(t, "This field is required", FormatValidationError(err)["perkid"])

	assert.Nil(t, FormatValidationError(nil))
	assert.Equal(t, map[string]string{"error": "Invalid request format"}, FormatValidationError(errors.New("boom")))
}
