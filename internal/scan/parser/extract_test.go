package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEmiratesID(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "canonical dashed form",
			text: "ID Number: 784-1990-1234567-1",
			want: "784-1990-1234567-1",
		},
		{
			name: "space separated groups",
			text: "784 1990 1234567 8",
			want: "784-1990-1234567-8",
		},
		{
			name: "colon separated groups",
			text: "784:1985:7654321:2",
			want: "784-1985-7654321-2",
		},
		{
			name: "prefixless form gets 784 supplied",
			text: "ID No: 1990-1234567-1",
			want: "784-1990-1234567-1",
		},
		{
			name: "compact 15 digits",
			text: "784199012345671",
			want: "784-1990-1234567-1",
		},
		{
			name: "no candidate",
			text: "nothing resembling an identity number here",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractEmiratesID(tt.text))
		})
	}
}

func TestExtractLicenseNumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "labeled with number keyword",
			text: "License No: AB123456",
			want: "AB123456",
		},
		{
			name: "british spelling lowercased input",
			text: "licence number: dx991234",
			want: "DX991234",
		},
		{
			name: "DL shorthand",
			text: "DL: X9988776",
			want: "X9988776",
		},
		{
			name: "bare two letter prefix",
			text: "Holder DX4512345 Dubai",
			want: "DX4512345",
		},
		{
			name: "no candidate",
			text: "no number on this line",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractLicenseNumber(tt.text))
		})
	}
}

func TestExtractPassportNumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "labeled",
			text: "Passport No: N1234567",
			want: "N1234567",
		},
		{
			name: "P shorthand",
			text: "P: AB1234567",
			want: "AB1234567",
		},
		{
			name: "bare token is not enough",
			text: "N1234567",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractPassportNumber(tt.text))
		})
	}
}

func TestExtractFullName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "labeled",
			text: "Name: Ahmed Al-Rashid",
			want: "Ahmed Al-Rashid",
		},
		{
			name: "all caps line",
			text: "IDENTITY CARD\nMOHAMMED HASSAN\n15/06/1990",
			want: "MOHAMMED HASSAN",
		},
		{
			name: "boilerplate caps rejected in favor of mixed case",
			text: "UNITED ARAB EMIRATES\nholder Ahmed Al-Rashid presented the card",
			want: "Ahmed Al-Rashid",
		},
		{
			name: "single word rejected",
			text: "Name: Ahmed",
			want: "",
		},
		{
			name: "stoplist word rejected",
			text: "Name: Emirates Authority",
			want: "",
		},
		{
			name: "document title line skipped for the name below it",
			text: "DRIVING LICENCE\nFATIMA HASSAN QASIMI\nDX991234",
			want: "FATIMA HASSAN QASIMI",
		},
		{
			name: "stop word as substring of a real name is fine",
			text: "Name: Ricardo Cardoso",
			want: "Ricardo Cardoso",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractFullName(tt.text))
		})
	}
}

func TestExtractNationality(t *testing.T) {
	assert.Equal(t, "Jordan", extractNationality("Nationality: Jordan\nSex: M"))
	assert.Equal(t, "India", extractNationality("Country: India"))

	// Issuing state boilerplate is not the holder's nationality
	assert.Equal(t, "", extractNationality("Nationality: United Arab Emirates"))
	assert.Equal(t, "", extractNationality("no field here"))
}

func TestExtractGender(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Sex: M", "Male"},
		{"Gender: FEMALE", "Female"},
		{"sex: male", "Male"},
		{"Gender: f", "Female"},
		{"Gender: Divers", "Divers"},
		{"no marker", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, extractGender(tt.text))
		})
	}
}

func TestExtractLicenseClass(t *testing.T) {
	assert.Equal(t, "Class 3", extractLicenseClass("Class: 3"))
	assert.Equal(t, "Class B", extractLicenseClass("Category B"))
	assert.Equal(t, "Class LMV", extractLicenseClass("Type: lmv"))
	assert.Equal(t, "", extractLicenseClass("no vehicle marker"))
}

func TestFirstMatchHonorsRuleOrder(t *testing.T) {
	// The labeled license rule outranks the bare pattern even when the
	// bare candidate appears earlier in the text
	text := "Plate DX4512345\nLicense No: AB123456"
	assert.Equal(t, "AB123456", extractLicenseNumber(text))
}
