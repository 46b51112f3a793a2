package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCardTitle(t *testing.T) {
	tests := []struct {
		card Card
		want string
	}{
		{Card{Name: "Show X", Date: "01/10/2025"}, "Show X"},
		{Card{Date: "01/10/2025", Weekday: "quarta"}, "01/10/2025"},
		{Card{Weekday: "quarta", Period: "Noite"}, "quarta"},
		{Card{Link: "https://x.example"}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.card.Title())
	}
}
