package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
)

// Registration defaults applied when role fields are omitted.
const (
	DefaultStudentClass         = "1st"
	DefaultStudentSection       = "A"
	DefaultStudentRollNumber    = "1"
	DefaultTeacherQualification = "Bachelor's Degree"
	DefaultTeacherSalary        = 50000
	DefaultParentRelationship   = models.RelationshipFather
	DefaultAdminDesignation     = "Administrator"
)

// ProfileDraft is the role-specific part of a registration. The set of variants is closed:
// StudentDraft, TeacherDraft, ParentDraft and AdminDraft.
type ProfileDraft interface {
	Role() models.Role
	build(now time.Time) models.Profile
}

// StudentDraft carries student registration fields.
type StudentDraft struct {
	Class       string
	Section     string
	RollNumber  string
	DateOfBirth *time.Time
	ParentID    *uint
	Subjects    []string
}

// TeacherDraft carries teacher registration fields.
type TeacherDraft struct {
	Subjects      []string
	Classes       []models.TeacherClass
	Qualification string
	Experience    int
	Salary        float64
}

// ParentDraft carries parent registration fields.
type ParentDraft struct {
	Children         []uint
	Occupation       string
	EmergencyContact string
	Relationship     string
}

// AdminDraft carries admin registration fields.
type AdminDraft struct {
	Designation string
}

func (StudentDraft) Role() models.Role { return models.RoleStudent }
func (TeacherDraft) Role() models.Role { return models.RoleTeacher }
func (ParentDraft) Role() models.Role  { return models.RoleParent }
func (AdminDraft) Role() models.Role   { return models.RoleAdmin }

func (d StudentDraft) build(now time.Time) models.Profile {
	return &models.Student{
		StudentNumber: generateCode("STU", now),
		Class:         d.Class,
		Section:       d.Section,
		RollNumber:    d.RollNumber,
		DateOfBirth:   d.DateOfBirth,
		ParentID:      d.ParentID,
		Subjects:      datatypes.NewJSONSlice(d.Subjects),
	}
}

func (d TeacherDraft) build(now time.Time) models.Profile {
	return &models.Teacher{
		EmployeeID:    generateCode("TECH", now),
		Subjects:      datatypes.NewJSONSlice(d.Subjects),
		Classes:       append([]models.TeacherClass(nil), d.Classes...),
		Qualification: d.Qualification,
		Experience:    d.Experience,
		Salary:        d.Salary,
		JoiningDate:   now,
		Schedule:      datatypes.NewJSONSlice([]models.ScheduleDay{}),
	}
}

func (d ParentDraft) build(time.Time) models.Profile {
	children := make([]models.Student, 0, len(d.Children))
	for _, id := range d.Children {
		children = append(children, models.Student{ID: id})
	}
	return &models.Parent{
		Children:         children,
		Occupation:       d.Occupation,
		EmergencyContact: d.EmergencyContact,
		Relationship:     d.Relationship,
	}
}

func (d AdminDraft) build(time.Time) models.Profile {
	return &models.Admin{Designation: d.Designation}
}

// newProfileDraft picks the role-specific fields out of a registration request and
// applies defaults. clean is applied to free-text fields.
func newProfileDraft(role models.Role, req dto.RegisterRequest, clean func(string) string) (ProfileDraft, error) {
	switch role {
	case models.RoleStudent:
		draft := StudentDraft{
			Class:      defaultString(clean(req.Class), DefaultStudentClass),
			Section:    defaultString(clean(req.Section), DefaultStudentSection),
			RollNumber: defaultString(clean(req.RollNumber), DefaultStudentRollNumber),
			ParentID:   req.ParentID,
			Subjects:   cleanList(req.Subjects, clean),
		}
		if req.DateOfBirth != "" {
			dob, err := time.Parse(time.DateOnly, req.DateOfBirth)
			if err != nil {
				return nil, newValidationError("dateOfBirth", "must be formatted as YYYY-MM-DD")
			}
			draft.DateOfBirth = &dob
		}
		return draft, nil
	case models.RoleTeacher:
		draft := TeacherDraft{
			Subjects:      cleanList(req.Subjects, clean),
			Qualification: defaultString(clean(req.Qualification), DefaultTeacherQualification),
			Salary:        DefaultTeacherSalary,
		}
		if req.Salary != nil && *req.Salary > 0 {
			draft.Salary = *req.Salary
		}
		if req.Experience != nil {
			draft.Experience = *req.Experience
		}
		seen := make(map[string]struct{}, len(req.Classes))
		for _, class := range req.Classes {
			entry := models.TeacherClass{ClassName: clean(class.Name()), Section: clean(class.Section)}
			if entry.ClassName == "" || entry.Section == "" {
				return nil, newValidationError("classes", "each class needs a class name and a section")
			}
			key := entry.ClassName + "\x00" + entry.Section
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			draft.Classes = append(draft.Classes, entry)
		}
		return draft, nil
	case models.RoleParent:
		draft := ParentDraft{
			Occupation:       clean(req.Occupation),
			EmergencyContact: strings.TrimSpace(req.EmergencyContact),
			Relationship:     defaultString(strings.ToLower(strings.TrimSpace(req.Relationship)), DefaultParentRelationship),
		}
		seen := make(map[uint]struct{}, len(req.Children))
		for _, id := range req.Children {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			draft.Children = append(draft.Children, id)
		}
		return draft, nil
	case models.RoleAdmin:
		return AdminDraft{Designation: defaultString(clean(req.Designation), DefaultAdminDesignation)}, nil
	default:
		return nil, newValidationError("role", fmt.Sprintf("unsupported role %q", role))
	}
}

func generateCode(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s%d%s", prefix, now.UnixMilli(), suffix)
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func cleanList(values []string, clean func(string) string) []string {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		cleaned := clean(value)
		if cleaned == "" {
			continue
		}
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		result = append(result, cleaned)
	}
	return result
}
