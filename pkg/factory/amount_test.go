package factory_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/getmockd/mockfactory/pkg/factory"
	"github.com/getmockd/mockfactory/pkg/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    int
		wantErr bool
	}{
		{"int", 3, 3, false},
		{"zero", 0, 0, false},
		{"int64", int64(7), 7, false},
		{"uint8", uint8(2), 2, false},
		{"integral float", 4.0, 4, false},
		{"string", "5", 5, false},
		{"json number", json.Number("6"), 6, false},
		{"negative", -1, 0, true},
		{"fraction", 1.5, 0, true},
		{"negative float", -2.0, 0, true},
		{"fraction string", "1.5", 0, true},
		{"json fraction", json.Number("1.5"), 0, true},
		{"word", "three", 0, true},
		{"nil", nil, 0, true},
		{"bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := factory.ParseAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, fault.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
