package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClozeExtractions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want ClozeExtractions
	}{
		{
			name: "two deletions in order",
			text: "The {{c1::mitochondria}} is the {{c2::powerhouse}} of the cell",
			want: ClozeExtractions{{Number: 1, Word: "mitochondria"}, {Number: 2, Word: "powerhouse"}},
		},
		{
			name: "repeated number",
			text: "{{c1::ATP}} and more {{c1::ATP}}",
			want: ClozeExtractions{{Number: 1, Word: "ATP"}, {Number: 1, Word: "ATP"}},
		},
		{
			name: "multiword deletion",
			text: "Signed in {{c3::the year 1215}}.",
			want: ClozeExtractions{{Number: 3, Word: "the year 1215"}},
		},
		{
			name: "no markup",
			text: "plain text",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseClozeExtractions(tt.text))
		})
	}
}
