package models

// AllModels returns every persisted model in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Student{},
		&Grade{},
		&AttendanceRecord{},
		&Teacher{},
		&TeacherClass{},
		&Parent{},
		&Admin{},
		&ActivityLog{},
	}
}

// Profile is implemented by every role profile record persisted alongside its user.
type Profile interface {
	ProfileRole() Role
	AttachUser(userID uint)
}

func (*Student) ProfileRole() Role { return RoleStudent }
func (*Teacher) ProfileRole() Role { return RoleTeacher }
func (*Parent) ProfileRole() Role  { return RoleParent }
func (*Admin) ProfileRole() Role   { return RoleAdmin }

func (s *Student) AttachUser(userID uint) { s.UserID = userID }
func (t *Teacher) AttachUser(userID uint) { t.UserID = userID }
func (p *Parent) AttachUser(userID uint)  { p.UserID = userID }
func (a *Admin) AttachUser(userID uint)   { a.UserID = userID }
