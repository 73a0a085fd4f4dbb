package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"driveschool-service/internal/domain/entity"
	"driveschool-service/internal/domain/repository"
)

// In-memory repository fakes shared by the scheduling engine tests.

type fakeStudentRepo struct {
	mu       sync.Mutex
	students map[string]*entity.Student
	failInc  bool
}

func newFakeStudentRepo(students ...*entity.Student) *fakeStudentRepo {
	r := &fakeStudentRepo{students: make(map[string]*entity.Student)}
	for _, s := range students {
		r.students[s.ID] = s
	}
	return r
}

func (r *fakeStudentRepo) Save(ctx context.Context, s *entity.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.students[s.ID] = s
	return nil
}

func (r *fakeStudentRepo) FindByID(ctx context.Context, id string) (*entity.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.students[id], nil
}

func (r *fakeStudentRepo) FindByEmail(ctx context.Context, email string) (*entity.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.students {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeStudentRepo) List(ctx context.Context, limit int) ([]*entity.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Student, 0, len(r.students))
	for _, s := range r.students {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeStudentRepo) AdjustLessonCount(ctx context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInc && delta > 0 {
		return fmt.Errorf("simulated count failure")
	}
	s, ok := r.students[id]
	if !ok {
		return fmt.Errorf("no student found with id: %s", id)
	}
	s.LessonCount += delta
	return nil
}

type fakeInstructorRepo struct {
	instructors map[uint]*entity.Instructor
}

func newFakeInstructorRepo(instructors ...*entity.Instructor) *fakeInstructorRepo {
	r := &fakeInstructorRepo{instructors: make(map[uint]*entity.Instructor)}
	for _, i := range instructors {
		r.instructors[i.ID] = i
	}
	return r
}

func (r *fakeInstructorRepo) GetByID(ctx context.Context, id uint) (*entity.Instructor, error) {
	return r.instructors[id], nil
}

func (r *fakeInstructorRepo) List(ctx context.Context) ([]*entity.Instructor, error) {
	out := make([]*entity.Instructor, 0, len(r.instructors))
	for _, i := range r.instructors {
		out = append(out, i)
	}
	return out, nil
}

type fakeVehicleRepo struct {
	mu       sync.Mutex
	vehicles map[string]*entity.Vehicle
}

func newFakeVehicleRepo(vehicles ...*entity.Vehicle) *fakeVehicleRepo {
	r := &fakeVehicleRepo{vehicles: make(map[string]*entity.Vehicle)}
	for _, v := range vehicles {
		r.vehicles[v.ID] = v
	}
	return r
}

func (r *fakeVehicleRepo) Save(ctx context.Context, v *entity.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vehicles[v.ID] = v
	return nil
}

func (r *fakeVehicleRepo) FindByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vehicles[id], nil
}

func (r *fakeVehicleRepo) FindAll(ctx context.Context) ([]*entity.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		out = append(out, v)
	}
	return out, nil
}

func (r *fakeVehicleRepo) FindByStatus(ctx context.Context, status, transmission string) ([]*entity.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Vehicle, 0)
	for _, v := range r.vehicles {
		if v.Status != status {
			continue
		}
		if transmission != "" && v.Transmission != transmission {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *fakeVehicleRepo) UpdateMaintenanceInfo(ctx context.Context, v *entity.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vehicles[v.ID]; !ok {
		return fmt.Errorf("no vehicle found with id: %s", v.ID)
	}
	r.vehicles[v.ID] = v
	return nil
}

func (r *fakeVehicleRepo) UpdateStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[id]
	if !ok {
		return fmt.Errorf("no vehicle found with id: %s", id)
	}
	v.Status = status
	return nil
}

func (r *fakeVehicleRepo) AssignInstructor(ctx context.Context, id string, instructorID *uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[id]
	if !ok {
		return fmt.Errorf("no vehicle found with id: %s", id)
	}
	v.InstructorID = instructorID
	return nil
}

func (r *fakeVehicleRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vehicles[id]; !ok {
		return fmt.Errorf("no vehicle found with id: %s", id)
	}
	delete(r.vehicles, id)
	return nil
}

type fakeLessonRepo struct {
	mu      sync.Mutex
	lessons map[string]*entity.Lesson
}

func newFakeLessonRepo(lessons ...*entity.Lesson) *fakeLessonRepo {
	r := &fakeLessonRepo{lessons: make(map[string]*entity.Lesson)}
	for _, l := range lessons {
		r.lessons[l.ID] = l
	}
	return r
}

func (r *fakeLessonRepo) Insert(ctx context.Context, l *entity.Lesson) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lessons[l.ID] = l
	return nil
}

func (r *fakeLessonRepo) FindByID(ctx context.Context, id string) (*entity.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lessons[id], nil
}

func (r *fakeLessonRepo) FindByInstructorAndDate(ctx context.Context, instructorID uint, date string) ([]*entity.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Lesson, 0)
	for _, l := range r.lessons {
		if l.InstructorID == instructorID && l.Date == date {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) FindByVehicleAndDate(ctx context.Context, vehicleID, date string) ([]*entity.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Lesson, 0)
	for _, l := range r.lessons {
		if l.VehicleID == vehicleID && l.Date == date {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) FindByDateAndStatus(ctx context.Context, date, status string) ([]*entity.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Lesson, 0)
	for _, l := range r.lessons {
		if l.Date == date && l.Status == status {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) CountFutureByVehicle(ctx context.Context, vehicleID, fromDate string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, l := range r.lessons {
		if l.VehicleID == vehicleID && l.Date >= fromDate && l.Status == entity.LessonScheduled {
			n++
		}
	}
	return n, nil
}

func (r *fakeLessonRepo) Update(ctx context.Context, l *entity.Lesson) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lessons[l.ID]; !ok {
		return fmt.Errorf("no lesson found with id: %s", l.ID)
	}
	r.lessons[l.ID] = l
	return nil
}

func (r *fakeLessonRepo) UpdateStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lessons[id]
	if !ok {
		return fmt.Errorf("no lesson found with id: %s", id)
	}
	l.Status = status
	return nil
}

func (r *fakeLessonRepo) MarkReminderSent(ctx context.Context, id string, sentAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lessons[id]
	if !ok {
		return fmt.Errorf("no lesson found with id: %s", id)
	}
	l.ReminderSentAt = &sentAt
	return nil
}

func (r *fakeLessonRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lessons, id)
	return nil
}

func (r *fakeLessonRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lessons)
}

type fakeMaintenanceRepo struct {
	mu      sync.Mutex
	records []*entity.MaintenanceRecord
}

func (r *fakeMaintenanceRepo) Append(ctx context.Context, rec *entity.MaintenanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeMaintenanceRepo) FindByVehicle(ctx context.Context, vehicleID string) ([]*entity.MaintenanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.MaintenanceRecord, 0)
	for _, rec := range r.records {
		if rec.VehicleID == vehicleID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeLockRepo struct {
	mu    sync.Mutex
	locks map[string]time.Time
}

func newFakeLockRepo() *fakeLockRepo {
	return &fakeLockRepo{locks: make(map[string]time.Time)}
}

func (r *fakeLockRepo) Acquire(ctx context.Context, key string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if exp, ok := r.locks[key]; ok && exp.After(time.Now()) {
		return &repository.ErrLockHeld{Key: key}
	}
	r.locks[key] = expiresAt
	return nil
}

func (r *fakeLockRepo) Release(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, key)
	return nil
}
