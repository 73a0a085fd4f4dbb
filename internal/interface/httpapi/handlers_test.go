package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driveschool-service/internal/usecase"
	"driveschool-service/pkg/logger"
)

func TestWriteError_StatusMapping(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, logger.NewNop())

	tests := []struct {
		kind   usecase.ErrorKind
		status int
	}{
		{usecase.KindNotFound, http.StatusNotFound},
		{usecase.KindInvalidInput, http.StatusBadRequest},
		{usecase.KindInvalidWindow, http.StatusBadRequest},
		{usecase.KindAlreadyExists, http.StatusConflict},
		{usecase.KindOutOfOrderRecord, http.StatusUnprocessableEntity},
		{usecase.KindInstructorConflict, http.StatusConflict},
		{usecase.KindVehicleConflict, http.StatusConflict},
		{usecase.KindVehicleUnavailable, http.StatusConflict},
		{usecase.KindConcurrentModification, http.StatusConflict},
		{usecase.KindStoreUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.writeError(rec, usecase.NewError(tc.kind, "boom"))
			assert.Equal(t, tc.status, rec.Code)

			var resp errorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, []string{string(tc.kind)}, resp.Kinds)
		})
	}
}

func TestWriteError_RelatedKindsIncluded(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, logger.NewNop())
	rec := httptest.NewRecorder()

	e := usecase.NewError(usecase.KindInstructorConflict, "both booked")
	e.Related = []usecase.ErrorKind{usecase.KindVehicleConflict}
	h.writeError(rec, e)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"instructor_conflict", "vehicle_conflict"}, resp.Kinds)
}

func TestWriteError_UnknownErrorIsInternal(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, logger.NewNop())
	rec := httptest.NewRecorder()

	h.writeError(rec, fmt.Errorf("plain failure"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestParseWindow(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, logger.NewNop())

	rec := httptest.NewRecorder()
	start, end, ok := h.parseWindow(rec, "09:00", "10:30")
	require.True(t, ok)
	assert.Equal(t, 540, start)
	assert.Equal(t, 630, end)

	rec = httptest.NewRecorder()
	_, _, ok = h.parseWindow(rec, "9 am", "10:30")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIntQuery(t *testing.T) {
	assert.Equal(t, 14, intQuery("", 14))
	assert.Equal(t, 7, intQuery("7", 14))
	assert.Equal(t, 14, intQuery("junk", 14))
}
