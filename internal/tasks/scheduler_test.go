package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCronSpec(t *testing.T) {
	cases := []struct {
		spec string
		want bool
	}{
		{"0 8 * * *", true},
		{"*/15 * * * *", true},
		{"@daily", true},
		{"", false},
		{"99 99 * * *", false},
		{"every morning", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, validCronSpec(tc.spec), "spec %q", tc.spec)
	}
}
