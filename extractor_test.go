package linguacrawl_test

import (
	"testing"

	"github.com/fwojciec/linguacrawl"
	"github.com/stretchr/testify/assert"
)

func TestCollapseBlankLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only whitespace", " \n\t\n ", ""},
		{"trims lines", "  Hei  \n\tmaailma ", "Hei\nmaailma"},
		{"drops blank lines", "yksi\n\n\n kaksi\n\n", "yksi\nkaksi"},
		{"keeps inner spacing", "a  b\nc", "a  b\nc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, linguacrawl.CollapseBlankLines(tt.in))
		})
	}
}
