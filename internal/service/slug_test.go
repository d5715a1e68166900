package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  string
	}{
		{title: "Hello World", want: "hello-world"},
		{title: "Hello, World!", want: "hello-world"},
		{title: "  Leading and trailing  ", want: "leading-and-trailing"},
		{title: "Multiple---separators___here", want: "multiple-separators-here"},
		{title: "MERN Stack Tutorial", want: "mern-stack-tutorial"},
		{title: "100 Days of Go", want: "100-days-of-go"},
		{title: "!!!", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.title, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}
