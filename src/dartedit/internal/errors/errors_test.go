package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBadChange(t *testing.T) {
	nb := New("not a bad change")
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "no edits",
			err:  NoEditsError,
			want: true,
		},
		{
			name: "wrapped empty path",
			err:  fmt.Errorf("converting: %w", EmptyFilePathError),
			want: true,
		},
		{
			name: "not bad change",
			err:  nb,
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsBadChange(tt.err))
		})
	}
}
