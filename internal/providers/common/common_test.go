package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractProjectType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"prefers longer keyword", "commissioning of a new solar energy plant", "Renewable Energy - Solar"},
		{"metro", "L&T wins metro rail phase 2 order", "Transportation - Metro"},
		{"water", "contract for water treatment facility", "Water Infrastructure"},
		{"generic contract", "received letter of award for contract", "Contract"},
		{"no keyword", "quarterly board meeting outcome", DefaultProjectType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractProjectType(tt.text))
		})
	}
}

func TestExtractLocation(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"state", "highway project in tamil nadu won by NCC", "Tamil Nadu"},
		{"city", "new data center coming up near Hyderabad", "Hyderabad"},
		{"in pattern fallback", "awarded work in Navi Panvel by the authority", "Navi Panvel"},
		{"none", "order win announced today", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractLocation(tt.text))
		})
	}
}

func TestExtractContractValue(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"rupee crore", "bagged an order of Rs. 1,250 crore from NHAI", "Rs. 1,250 crore"},
		{"inr prefix", "INR 540 crore EPC contract", "Rs. 540 crore"},
		{"usd", "secured a USD 75 million export order", "USD 75 million"},
		{"value of phrasing", "order value of 320 crore for tower supply", "320 crore"},
		{"bare megawatt", "commissioned 400 MW capacity", "400 crore"},
		{"none", "no financial details were disclosed", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractContractValue(tt.text))
		})
	}
}

func TestToInt64(t *testing.T) {
	assert.Equal(t, int64(42), ToInt64(float64(42)))
	assert.Equal(t, int64(7), ToInt64("7"))
	assert.Equal(t, int64(0), ToInt64("n/a"))
	assert.Equal(t, int64(0), ToInt64(nil))
}

func TestToString(t *testing.T) {
	assert.Equal(t, "500510", ToString("500510"))
	assert.Equal(t, "12", ToString(float64(12)))
	assert.Equal(t, "", ToString(nil))
}
