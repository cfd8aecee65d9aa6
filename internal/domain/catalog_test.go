package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/julinotmonth/outtthelook/pkg/types"
)

func TestStaffMember_HasWorkingWindow(t *testing.T) {
	tests := []struct {
		name       string
		start, end types.TimeString
		want       bool
	}{
		{"regular day", "09:00", "17:00", true},
		{"until midnight", "18:00", types.EndOfDay, true},
		{"inverted", "17:00", "09:00", false},
		{"empty", "10:00", "10:00", false},
		{"midnight as start", types.EndOfDay, types.EndOfDay, false},
		{"bad format", "9am", "17:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &StaffMember{WorkStart: tt.start, WorkEnd: tt.end}
			assert.Equal(t, tt.want, s.HasWorkingWindow())
		})
	}
}
