package services

import (
	"context"
	"sync"

	"github.com/qazaqedu/course-service/internal/models"
	"github.com/qazaqedu/course-service/internal/repositories"
)

// In-memory repository doubles used across the service tests. They enforce
// the same uniqueness rules as the real PostgreSQL layer and hand out
// repositories.ErrRecordNotFound / ErrDuplicateKey the same way.

// cloneTable deep-copies a repository table so a transaction snapshot is
// unaffected by later in-place mutations.
func cloneTable[T any](src map[uint]*T) map[uint]*T {
	out := make(map[uint]*T, len(src))
	for id, v := range src {
		clone := *v
		out[id] = &clone
	}
	return out
}

type mockUserRepo struct {
	mu   sync.Mutex
	seq  uint
	byID map[uint]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byID: make(map[uint]*models.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == user.Email {
			return repositories.ErrDuplicateKey
		}
	}
	m.seq++
	user.ID = m.seq
	clone := *user
	m.byID[user.ID] = &clone
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) UpdateEmail(_ context.Context, id uint, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return repositories.ErrRecordNotFound
	}
	for otherID, other := range m.byID {
		if otherID != id && other.Email == email {
			return repositories.ErrDuplicateKey
		}
	}
	u.Email = email
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repositories.ErrRecordNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockUserRepo) snapshot() (map[uint]*models.User, uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneTable(m.byID), m.seq
}

func (m *mockUserRepo) restore(byID map[uint]*models.User, seq uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = byID
	m.seq = seq
}

type mockStudentRepo struct {
	mu   sync.Mutex
	seq  uint
	byID map[uint]*models.Student
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{byID: make(map[uint]*models.Student)}
}

func (m *mockStudentRepo) Create(_ context.Context, student *models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byID {
		if s.Email == student.Email {
			return repositories.ErrDuplicateKey
		}
	}
	m.seq++
	student.ID = m.seq
	clone := *student
	m.byID[student.ID] = &clone
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id uint) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	clone := *s
	return &clone, nil
}

func (m *mockStudentRepo) GetByUserID(_ context.Context, userID uint) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byID {
		if s.UserID == userID {
			clone := *s
			return &clone, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (m *mockStudentRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byID {
		if s.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) List(_ context.Context, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Student, 0, len(m.byID))
	for _, s := range m.byID {
		if filters.Status != nil && s.Status != *filters.Status {
			continue
		}
		clone := *s
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (m *mockStudentRepo) Update(_ context.Context, student *models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[student.ID]; !ok {
		return repositories.ErrRecordNotFound
	}
	clone := *student
	m.byID[student.ID] = &clone
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repositories.ErrRecordNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockStudentRepo) snapshot() (map[uint]*models.Student, uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneTable(m.byID), m.seq
}

func (m *mockStudentRepo) restore(byID map[uint]*models.Student, seq uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = byID
	m.seq = seq
}

type mockCourseRepo struct {
	mu   sync.Mutex
	seq  uint
	byID map[uint]*models.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{byID: make(map[uint]*models.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	course.ID = m.seq
	clone := *course
	m.byID[course.ID] = &clone
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id uint) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	clone := *c
	return &clone, nil
}

func (m *mockCourseRepo) GetByIDWithDetails(ctx context.Context, id uint) (*models.Course, error) {
	return m.GetByID(ctx, id)
}

func (m *mockCourseRepo) List(_ context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Course, 0, len(m.byID))
	for _, c := range m.byID {
		if filters.Category != nil && c.Category != *filters.Category {
			continue
		}
		if filters.Level != nil && c.Level != *filters.Level {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[course.ID]; !ok {
		return repositories.ErrRecordNotFound
	}
	clone := *course
	m.byID[course.ID] = &clone
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repositories.ErrRecordNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockCourseRepo) IncrementStudents(_ context.Context, id uint, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return repositories.ErrRecordNotFound
	}
	c.Students += delta
	return nil
}

func (m *mockCourseRepo) snapshot() (map[uint]*models.Course, uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneTable(m.byID), m.seq
}

func (m *mockCourseRepo) restore(byID map[uint]*models.Course, seq uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = byID
	m.seq = seq
}

type mockLessonRepo struct {
	mu   sync.Mutex
	seq  uint
	byID map[uint]*models.Lesson
}

func newMockLessonRepo() *mockLessonRepo {
	return &mockLessonRepo{byID: make(map[uint]*models.Lesson)}
}

func (m *mockLessonRepo) Create(_ context.Context, lesson *models.Lesson) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	lesson.ID = m.seq
	clone := *lesson
	m.byID[lesson.ID] = &clone
	return nil
}

func (m *mockLessonRepo) GetByID(_ context.Context, id uint) (*models.Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byID[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	clone := *l
	return &clone, nil
}

func (m *mockLessonRepo) ListByCourse(_ context.Context, courseID uint) ([]*models.Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Lesson, 0)
	for _, l := range m.byID {
		if l.CourseID == courseID {
			clone := *l
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockLessonRepo) Update(_ context.Context, lesson *models.Lesson) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[lesson.ID]; !ok {
		return repositories.ErrRecordNotFound
	}
	clone := *lesson
	m.byID[lesson.ID] = &clone
	return nil
}

func (m *mockLessonRepo) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repositories.ErrRecordNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockLessonRepo) DeleteByCourse(_ context.Context, courseID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, l := range m.byID {
		if l.CourseID == courseID {
			delete(m.byID, id)
		}
	}
	return nil
}

func (m *mockLessonRepo) snapshot() (map[uint]*models.Lesson, uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneTable(m.byID), m.seq
}

func (m *mockLessonRepo) restore(byID map[uint]*models.Lesson, seq uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = byID
	m.seq = seq
}

type mockEnrollmentRepo struct {
	mu   sync.Mutex
	seq  uint
	byID map[uint]*models.Enrollment
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{byID: make(map[uint]*models.Enrollment)}
}

func (m *mockEnrollmentRepo) Create(_ context.Context, enrollment *models.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.byID {
		if e.UserID == enrollment.UserID && e.CourseID == enrollment.CourseID {
			return repositories.ErrDuplicateKey
		}
	}
	m.seq++
	enrollment.ID = m.seq
	clone := *enrollment
	m.byID[enrollment.ID] = &clone
	return nil
}

func (m *mockEnrollmentRepo) GetByID(_ context.Context, id uint) (*models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byID[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	clone := *e
	return &clone, nil
}

func (m *mockEnrollmentRepo) GetByUserAndCourse(_ context.Context, userID, courseID uint) (*models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.byID {
		if e.UserID == userID && e.CourseID == courseID {
			clone := *e
			return &clone, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) ListByUser(_ context.Context, userID uint) ([]*models.Enrollment, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Enrollment, 0)
	for _, e := range m.byID {
		if e.UserID == userID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockEnrollmentRepo) CountByCourse(_ context.Context, courseID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, e := range m.byID {
		if e.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (m *mockEnrollmentRepo) Update(_ context.Context, enrollment *models.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[enrollment.ID]; !ok {
		return repositories.ErrRecordNotFound
	}
	clone := *enrollment
	m.byID[enrollment.ID] = &clone
	return nil
}

func (m *mockEnrollmentRepo) DeleteByCourse(_ context.Context, courseID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.byID {
		if e.CourseID == courseID {
			delete(m.byID, id)
		}
	}
	return nil
}

func (m *mockEnrollmentRepo) snapshot() (map[uint]*models.Enrollment, uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneTable(m.byID), m.seq
}

func (m *mockEnrollmentRepo) restore(byID map[uint]*models.Enrollment, seq uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = byID
	m.seq = seq
}

// mockRepository aggregates the in-memory sub-repositories. WithTransaction
// snapshots every table and restores them when the callback fails, so
// partial writes roll back the way a database transaction would.
type mockRepository struct {
	users       *mockUserRepo
	students    *mockStudentRepo
	courses     *mockCourseRepo
	lessons     *mockLessonRepo
	enrollments *mockEnrollmentRepo
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:       newMockUserRepo(),
		students:    newMockStudentRepo(),
		courses:     newMockCourseRepo(),
		lessons:     newMockLessonRepo(),
		enrollments: newMockEnrollmentRepo(),
	}
}

func (m *mockRepository) User() repositories.UserRepository             { return m.users }
func (m *mockRepository) Student() repositories.StudentRepository      { return m.students }
func (m *mockRepository) Course() repositories.CourseRepository        { return m.courses }
func (m *mockRepository) Lesson() repositories.LessonRepository        { return m.lessons }
func (m *mockRepository) Enrollment() repositories.EnrollmentRepository { return m.enrollments }

func (m *mockRepository) WithTransaction(_ context.Context, fn func(repositories.Repository) error) error {
	return m.transact(func() error { return fn(m) })
}

// transact runs fn with rollback-on-error semantics over the in-memory
// tables. Failing sub-repository wrappers route through it so their
// WithTransaction overrides keep the same guarantees.
func (m *mockRepository) transact(fn func() error) error {
	users, userSeq := m.users.snapshot()
	students, studentSeq := m.students.snapshot()
	courses, courseSeq := m.courses.snapshot()
	lessons, lessonSeq := m.lessons.snapshot()
	enrollments, enrollmentSeq := m.enrollments.snapshot()

	if err := fn(); err != nil {
		m.users.restore(users, userSeq)
		m.students.restore(students, studentSeq)
		m.courses.restore(courses, courseSeq)
		m.lessons.restore(lessons, lessonSeq)
		m.enrollments.restore(enrollments, enrollmentSeq)
		return err
	}
	return nil
}

func (m *mockRepository) Ping(_ context.Context) error { return nil }
func (m *mockRepository) Close() error                 { return nil }
