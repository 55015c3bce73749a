package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON_Success(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	// Act
	n, err := WriteJSON(w, payload, 201)

	// Assert
	require.NoError(t, err)
	assert.Positive(t, n)
	assert.Equal(t, 201, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, payload, got)
}

func TestWriteJSON_MarshalFailure(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()

	// Act: channels cannot be marshalled to JSON.
	_, err := WriteJSON(w, make(chan int), 200)

	// Assert
	require.Error(t, err)
	assert.Equal(t, 500, w.Code)
}
