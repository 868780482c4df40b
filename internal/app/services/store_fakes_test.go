package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lmoreno/schooldesk/internal/app/models"
	"github.com/lmoreno/schooldesk/internal/pkg/apperrors"
)

// fakeStore is an in-memory stand-in for the section and student
// repositories. It implements SectionStore, SectionGetter, StudentStore and
// RosterStore so one instance can back every service under test.
type fakeStore struct {
	mu       sync.Mutex
	sections map[string]*models.Section
	students map[string]*models.Student

	// sectionInsertConflicts and studentInsertConflicts make the next n
	// inserts of that kind fail as if the generated id had been claimed
	// concurrently.
	sectionInsertConflicts int
	studentInsertConflicts int

	// assignErr, when set for a student id, fails that assignment to
	// simulate a mid-batch write failure.
	assignErr map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sections:  map[string]*models.Section{},
		students:  map[string]*models.Student{},
		assignErr: map[string]error{},
	}
}

func (f *fakeStore) addSection(id string, group models.SectionGroup, year, maxCapacity int) *models.Section {
	f.mu.Lock()
	defer f.mu.Unlock()
	section := &models.Section{
		SectionID:   id,
		Title:       "Section " + id,
		Group:       group,
		Year:        year,
		MaxCapacity: maxCapacity,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.sections[id] = section
	return section
}

func (f *fakeStore) addStudent(id string) *models.Student {
	f.mu.Lock()
	defer f.mu.Unlock()
	student := &models.Student{
		StudentID: id,
		FirstName: "First",
		LastName:  "Last",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.students[id] = student
	return student
}

func (f *fakeStore) studentSection(id string) *string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.students[id]; ok {
		return st.SectionID
	}
	return nil
}

// --- SectionStore ---

func (f *fakeStore) Insert(ctx context.Context, section *models.Section) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sectionInsertConflicts > 0 {
		f.sectionInsertConflicts--
		return apperrors.ErrSectionIDTaken
	}
	if _, ok := f.sections[section.SectionID]; ok {
		return apperrors.ErrSectionIDTaken
	}
	section.CreatedAt = time.Now()
	section.UpdatedAt = section.CreatedAt
	stored := *section
	f.sections[section.SectionID] = &stored
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, sectionID string) (*models.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	section, ok := f.sections[sectionID]
	if !ok {
		return nil, apperrors.ErrSectionNotFound
	}
	copied := *section
	return &copied, nil
}

func (f *fakeStore) ExistsID(ctx context.Context, sectionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.sections[sectionID]
	return ok, nil
}

func (f *fakeStore) UpdateFields(ctx context.Context, sectionID string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	section, ok := f.sections[sectionID]
	if !ok {
		return apperrors.ErrSectionNotFound
	}
	for column, value := range fields {
		switch column {
		case "title":
			section.Title = value.(string)
		case "group_letter":
			section.Group = value.(models.SectionGroup)
		case "study_plan_id":
			v := value.(string)
			section.StudyPlanID = &v
		case "teacher_id":
			v := value.(string)
			section.TeacherID = &v
		case "year":
			section.Year = value.(int)
		case "max_capacity":
			section.MaxCapacity = value.(int)
		}
	}
	section.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, sectionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sections[sectionID]; !ok {
		return apperrors.ErrSectionNotFound
	}
	// Student section references are intentionally left in place.
	delete(f.sections, sectionID)
	return nil
}

func (f *fakeStore) GetWithCount(ctx context.Context, sectionID string) (*models.SectionWithCount, error) {
	section, err := f.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	count, _ := f.CountBySection(ctx, sectionID)
	return &models.SectionWithCount{Section: *section, EnrolledCount: count}, nil
}

func (f *fakeStore) ListWithCounts(ctx context.Context, offset uint64, limit int) ([]*models.SectionWithCount, int64, error) {
	f.mu.Lock()
	ids := make([]string, 0, len(f.sections))
	for id := range f.sections {
		ids = append(ids, id)
	}
	f.mu.Unlock()
	sort.Strings(ids)

	total := int64(len(ids))
	ids = paginate(ids, offset, limit)

	var out []*models.SectionWithCount
	for _, id := range ids {
		sc, err := f.GetWithCount(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, sc)
	}
	return out, total, nil
}

// paginate applies an offset/limit window to a sorted id slice the way the
// real repositories do in SQL.
func paginate(ids []string, offset uint64, limit int) []string {
	if offset >= uint64(len(ids)) {
		return nil
	}
	ids = ids[offset:]
	if limit >= 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	return ids
}

// --- RosterStore ---

func (f *fakeStore) FindMissing(ctx context.Context, studentIDs []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var missing []string
	for _, id := range studentIDs {
		if _, ok := f.students[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (f *fakeStore) CountBySection(ctx context.Context, sectionID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, st := range f.students {
		if st.SectionID != nil && *st.SectionID == sectionID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) ListRoster(ctx context.Context, sectionID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var roster []string
	for _, st := range f.students {
		if st.SectionID != nil && *st.SectionID == sectionID {
			roster = append(roster, st.StudentID)
		}
	}
	sort.Strings(roster)
	return roster, nil
}

func (f *fakeStore) AssignSection(ctx context.Context, studentID, sectionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.assignErr[studentID]; ok {
		return err
	}
	student, ok := f.students[studentID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	id := sectionID
	student.SectionID = &id
	student.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) ClearSection(ctx context.Context, studentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	student, ok := f.students[studentID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	student.SectionID = nil
	student.UpdatedAt = time.Now()
	return nil
}

// --- StudentStore (beyond the roster methods above) ---

func (f *fakeStore) InsertStudent(ctx context.Context, student *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.studentInsertConflicts > 0 {
		f.studentInsertConflicts--
		return apperrors.ErrStudentIDTaken
	}
	if _, ok := f.students[student.StudentID]; ok {
		return apperrors.ErrStudentIDTaken
	}
	student.CreatedAt = time.Now()
	student.UpdatedAt = student.CreatedAt
	stored := *student
	f.students[student.StudentID] = &stored
	return nil
}

// fakeStudentStore adapts fakeStore to the StudentStore interface, whose
// method names collide with SectionStore's.
type fakeStudentStore struct {
	*fakeStore
}

func (f fakeStudentStore) Insert(ctx context.Context, student *models.Student) error {
	return f.InsertStudent(ctx, student)
}

func (f fakeStudentStore) GetByID(ctx context.Context, studentID string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	student, ok := f.students[studentID]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	copied := *student
	return &copied, nil
}

func (f fakeStudentStore) ExistsID(ctx context.Context, studentID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.students[studentID]
	return ok, nil
}

func (f fakeStudentStore) UpdateFields(ctx context.Context, studentID string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	student, ok := f.students[studentID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	for column, value := range fields {
		switch column {
		case "first_name":
			student.FirstName = value.(string)
		case "last_name":
			student.LastName = value.(string)
		}
	}
	student.UpdatedAt = time.Now()
	return nil
}

func (f fakeStudentStore) Delete(ctx context.Context, studentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.students[studentID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(f.students, studentID)
	return nil
}

func (f fakeStudentStore) List(ctx context.Context, sectionID *string, offset uint64, limit int) ([]*models.Student, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.students))
	for id := range f.students {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var matched []string
	for _, id := range ids {
		st := f.students[id]
		if sectionID != nil && (st.SectionID == nil || *st.SectionID != *sectionID) {
			continue
		}
		matched = append(matched, id)
	}

	total := int64(len(matched))
	var out []*models.Student
	for _, id := range paginate(matched, offset, limit) {
		copied := *f.students[id]
		out = append(out, &copied)
	}
	return out, total, nil
}

// fakePlanStore is an in-memory StudyPlanStore.
type fakePlanStore struct {
	mu    sync.Mutex
	plans map[string]*models.StudyPlan

	insertConflicts int
}

func newFakePlanStore() *fakePlanStore {
	return &fakePlanStore{plans: map[string]*models.StudyPlan{}}
}

func (f *fakePlanStore) Insert(ctx context.Context, plan *models.StudyPlan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertConflicts > 0 {
		f.insertConflicts--
		return apperrors.ErrStudyPlanIDTaken
	}
	if _, ok := f.plans[plan.StudyPlanID]; ok {
		return apperrors.ErrStudyPlanIDTaken
	}
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = plan.CreatedAt
	stored := *plan
	f.plans[plan.StudyPlanID] = &stored
	return nil
}

func (f *fakePlanStore) GetByID(ctx context.Context, planID string) (*models.StudyPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	plan, ok := f.plans[planID]
	if !ok {
		return nil, apperrors.ErrStudyPlanNotFound
	}
	copied := *plan
	return &copied, nil
}

func (f *fakePlanStore) ExistsID(ctx context.Context, planID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.plans[planID]
	return ok, nil
}

func (f *fakePlanStore) GetAll(ctx context.Context) ([]*models.StudyPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.plans))
	for id := range f.plans {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []*models.StudyPlan
	for _, id := range ids {
		copied := *f.plans[id]
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakePlanStore) UpdateFieldsVersioned(ctx context.Context, planID string, expectedVersion int, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	plan, ok := f.plans[planID]
	if !ok {
		return apperrors.ErrStudyPlanNotFound
	}
	if plan.Version != expectedVersion {
		return apperrors.ErrStaleStudyPlan
	}
	for column, value := range fields {
		switch column {
		case "name":
			plan.Name = value.(string)
		case "level":
			plan.Level = value.(string)
		}
	}
	plan.Version++
	plan.UpdatedAt = time.Now()
	return nil
}

func (f *fakePlanStore) UpdateStatus(ctx context.Context, planID string, from, to models.StudyPlanStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	plan, ok := f.plans[planID]
	if !ok {
		return apperrors.ErrStudyPlanNotFound
	}
	if plan.Status != from {
		return apperrors.ErrInvalidStatusChange
	}
	plan.Status = to
	plan.Version++
	plan.UpdatedAt = time.Now()
	return nil
}

func (f *fakePlanStore) Delete(ctx context.Context, planID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.plans[planID]; !ok {
		return apperrors.ErrStudyPlanNotFound
	}
	delete(f.plans, planID)
	return nil
}

// fakeTeacherStore is an in-memory TeacherStore.
type fakeTeacherStore struct {
	mu       sync.Mutex
	teachers map[string]*models.Teacher

	insertConflicts int
}

func newFakeTeacherStore() *fakeTeacherStore {
	return &fakeTeacherStore{teachers: map[string]*models.Teacher{}}
}

func (f *fakeTeacherStore) Insert(ctx context.Context, teacher *models.Teacher) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertConflicts > 0 {
		f.insertConflicts--
		return apperrors.ErrTeacherIDTaken
	}
	if _, ok := f.teachers[teacher.TeacherID]; ok {
		return apperrors.ErrTeacherIDTaken
	}
	for _, existing := range f.teachers {
		if existing.Email == teacher.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	teacher.CreatedAt = time.Now()
	teacher.UpdatedAt = teacher.CreatedAt
	stored := *teacher
	f.teachers[teacher.TeacherID] = &stored
	return nil
}

func (f *fakeTeacherStore) GetByID(ctx context.Context, teacherID string) (*models.Teacher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	teacher, ok := f.teachers[teacherID]
	if !ok {
		return nil, apperrors.ErrTeacherNotFound
	}
	copied := *teacher
	return &copied, nil
}

func (f *fakeTeacherStore) ExistsID(ctx context.Context, teacherID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.teachers[teacherID]
	return ok, nil
}

func (f *fakeTeacherStore) GetAll(ctx context.Context) ([]*models.Teacher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.teachers))
	for id := range f.teachers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []*models.Teacher
	for _, id := range ids {
		copied := *f.teachers[id]
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeTeacherStore) UpdateFields(ctx context.Context, teacherID string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	teacher, ok := f.teachers[teacherID]
	if !ok {
		return apperrors.ErrTeacherNotFound
	}
	for column, value := range fields {
		switch column {
		case "first_name":
			teacher.FirstName = value.(string)
		case "last_name":
			teacher.LastName = value.(string)
		case "email":
			teacher.Email = value.(string)
		case "phone":
			v := value.(string)
			teacher.Phone = &v
		}
	}
	teacher.UpdatedAt = time.Now()
	return nil
}

func (f *fakeTeacherStore) Delete(ctx context.Context, teacherID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.teachers[teacherID]; !ok {
		return apperrors.ErrTeacherNotFound
	}
	delete(f.teachers, teacherID)
	return nil
}
