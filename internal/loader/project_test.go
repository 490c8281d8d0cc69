package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		zeroWhenEmpty bool
		want          *int32
		wantErr       bool
	}{
		{name: "number", raw: "42", want: ptr(int32(42))},
		{name: "padded", raw: " 7 ", want: ptr(int32(7))},
		{name: "negative", raw: "-3", want: ptr(int32(-3))},
		{name: "empty is null", raw: ""},
		{name: "empty is zero", raw: "", zeroWhenEmpty: true, want: ptr(int32(0))},
		{name: "blank is zero", raw: "  ", zeroWhenEmpty: true, want: ptr(int32(0))},
		{name: "text", raw: "abc", wantErr: true},
		{name: "decimal", raw: "1.5", wantErr: true},
		{name: "overflow", raw: "3000000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInt(tt.raw, tt.zeroWhenEmpty)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTargetsCoverEveryField(t *testing.T) {
	assert.Len(t, intTargets, 13)
	assert.Len(t, flagTargets, 3)
}

func ptr[T any](v T) *T { return &v }
