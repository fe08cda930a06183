package pagination_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/fleetstack/rental_ledger_app/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	sortTime := time.Date(2024, 6, 1, 12, 30, 0, 123456789, time.UTC)
	createdAt := time.Date(2024, 6, 1, 12, 30, 5, 0, time.UTC)

	token := pagination.EncodeToken(sortTime, createdAt)
	gotSort, gotCreated, err := pagination.DecodeToken(token)

	require.NoError(t, err)
	assert.True(t, sortTime.Equal(gotSort))
	assert.True(t, createdAt.Equal(gotCreated))
}

func TestDecodeToken_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "not base64", token: "%%%not-base64%%%"},
		{name: "missing separator", token: base64.StdEncoding.EncodeToString([]byte("2024-06-01T00:00:00Z"))},
		{name: "bad timestamps", token: base64.StdEncoding.EncodeToString([]byte("foo|bar"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := pagination.DecodeToken(tt.token)
			assert.Error(t, err)
		})
	}
}
