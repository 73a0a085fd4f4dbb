package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driveschool-service/internal/domain/entity"
	"driveschool-service/pkg/logger"
)

// 2024-05-01 is a Wednesday.
const testDate = "2024-05-01"

func newTestResolver(lessons *fakeLessonRepo, vehicles *fakeVehicleRepo, instructors *fakeInstructorRepo) *AvailabilityResolver {
	log := logger.NewNop()
	return NewAvailabilityResolver(vehicles, instructors, NewConflictChecker(lessons, log), log)
}

func testFleet() *fakeVehicleRepo {
	return newFakeVehicleRepo(
		&entity.Vehicle{ID: "v1", Plate: "AA-11-BB", Transmission: entity.TransmissionManual, Status: entity.VehicleAvailable},
		&entity.Vehicle{ID: "v2", Plate: "CC-22-DD", Transmission: entity.TransmissionAutomatic, Status: entity.VehicleAvailable},
		&entity.Vehicle{ID: "v3", Plate: "EE-33-FF", Transmission: entity.TransmissionManual, Status: entity.VehicleMaintenance},
		&entity.Vehicle{ID: "v4", Plate: "GG-44-HH", Transmission: entity.TransmissionAutomatic, Status: entity.VehicleDefective},
	)
}

func testInstructors() *fakeInstructorRepo {
	wednesday := []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	return newFakeInstructorRepo(
		&entity.Instructor{ID: 1, Name: "Bos", LicenseType: entity.LicenseManual, Weekdays: wednesday},
		&entity.Instructor{ID: 2, Name: "Adams", LicenseType: entity.LicenseAutomatic, Weekdays: wednesday},
		&entity.Instructor{ID: 3, Name: "Visser", LicenseType: entity.LicenseManual, Weekdays: []time.Weekday{time.Saturday}},
	)
}

func TestFindAvailable_ExcludesUnavailableVehicles(t *testing.T) {
	resolver := newTestResolver(newFakeLessonRepo(), testFleet(), testInstructors())

	got, err := resolver.FindAvailable(context.Background(), testDate, 540, 600, AvailabilityFilters{})
	require.NoError(t, err)

	ids := make([]string, 0, len(got.Vehicles))
	for _, v := range got.Vehicles {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"v1", "v2"}, ids, "maintenance and defective vehicles must never appear")
}

func TestFindAvailable_BookedVehicleDropsOut(t *testing.T) {
	lessons := newFakeLessonRepo(&entity.Lesson{
		ID: "l1", InstructorID: 9, VehicleID: "v1", Date: testDate,
		StartMinute: 540, EndMinute: 600, Status: entity.LessonScheduled,
	})
	resolver := newTestResolver(lessons, testFleet(), testInstructors())

	got, err := resolver.FindAvailable(context.Background(), testDate, 570, 630, AvailabilityFilters{})
	require.NoError(t, err)
	require.Len(t, got.Vehicles, 1)
	assert.Equal(t, "v2", got.Vehicles[0].ID)

	// Back-to-back is fine.
	got, err = resolver.FindAvailable(context.Background(), testDate, 600, 660, AvailabilityFilters{})
	require.NoError(t, err)
	assert.Len(t, got.Vehicles, 2)
}

func TestFindAvailable_InstructorWeekdayAndLicense(t *testing.T) {
	resolver := newTestResolver(newFakeLessonRepo(), testFleet(), testInstructors())
	ctx := context.Background()

	got, err := resolver.FindAvailable(ctx, testDate, 540, 600, AvailabilityFilters{})
	require.NoError(t, err)
	names := make([]string, 0, len(got.Instructors))
	for _, ins := range got.Instructors {
		names = append(names, ins.Name)
	}
	// Visser does not work Wednesdays; result is sorted by name.
	assert.Equal(t, []string{"Adams", "Bos"}, names)

	// Manual request: the automatic-only license drops out.
	got, err = resolver.FindAvailable(ctx, testDate, 540, 600, AvailabilityFilters{Transmission: entity.TransmissionManual})
	require.NoError(t, err)
	require.Len(t, got.Instructors, 1)
	assert.Equal(t, "Bos", got.Instructors[0].Name)
	require.Len(t, got.Vehicles, 1)
	assert.Equal(t, "v1", got.Vehicles[0].ID)

	// A manual license teaches automatic vehicles too.
	got, err = resolver.FindAvailable(ctx, testDate, 540, 600, AvailabilityFilters{Transmission: entity.TransmissionAutomatic})
	require.NoError(t, err)
	assert.Len(t, got.Instructors, 2)
}

func TestFindAvailable_InstructorFilter(t *testing.T) {
	lessons := newFakeLessonRepo(&entity.Lesson{
		ID: "l1", InstructorID: 1, VehicleID: "v9", Date: testDate,
		StartMinute: 540, EndMinute: 600, Status: entity.LessonScheduled,
	})
	resolver := newTestResolver(lessons, testFleet(), testInstructors())
	ctx := context.Background()

	id := uint(1)
	got, err := resolver.FindAvailable(ctx, testDate, 570, 630, AvailabilityFilters{InstructorID: &id})
	require.NoError(t, err)
	assert.Empty(t, got.Instructors, "booked instructor is not available")

	got, err = resolver.FindAvailable(ctx, testDate, 600, 660, AvailabilityFilters{InstructorID: &id})
	require.NoError(t, err)
	require.Len(t, got.Instructors, 1)
	assert.Equal(t, uint(1), got.Instructors[0].ID)
}

func TestFindAvailable_RejectsBadInput(t *testing.T) {
	resolver := newTestResolver(newFakeLessonRepo(), testFleet(), testInstructors())
	ctx := context.Background()

	_, err := resolver.FindAvailable(ctx, testDate, 600, 540, AvailabilityFilters{})
	assert.Equal(t, KindInvalidWindow, KindOf(err))

	_, err = resolver.FindAvailable(ctx, testDate, -10, 600, AvailabilityFilters{})
	assert.Equal(t, KindInvalidWindow, KindOf(err))

	_, err = resolver.FindAvailable(ctx, testDate, 540, 1441, AvailabilityFilters{})
	assert.Equal(t, KindInvalidWindow, KindOf(err))

	_, err = resolver.FindAvailable(ctx, "01-05-2024", 540, 600, AvailabilityFilters{})
	assert.Equal(t, KindInvalidWindow, KindOf(err))
}

func TestFindAvailable_Deterministic(t *testing.T) {
	resolver := newTestResolver(newFakeLessonRepo(), testFleet(), testInstructors())
	ctx := context.Background()

	first, err := resolver.FindAvailable(ctx, testDate, 540, 600, AvailabilityFilters{})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := resolver.FindAvailable(ctx, testDate, 540, 600, AvailabilityFilters{})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
