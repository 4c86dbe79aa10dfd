package models

// ===== RESPONSE ENVELOPES =====

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	// Details carries internal error text in development only.
	Details string `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ===== AUTH =====

type AuthResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
}

// ===== STUDENTS =====

// CreatedStudentResponse is returned from managed-student creation. When no
// password was supplied a random one is generated and exposed exactly once
// here; only its bcrypt hash is persisted.
type CreatedStudentResponse struct {
	Student           *Student `json:"student"`
	GeneratedPassword string   `json:"generated_password,omitempty"`
}

// ===== COURSES =====

type CourseListResponse struct {
	Courses []*Course `json:"courses"`
	Total   int64     `json:"total"`
}

type StudentListResponse struct {
	Students []*Student `json:"students"`
	Total    int64      `json:"total"`
}

type EnrollmentListResponse struct {
	Enrollments []*Enrollment `json:"enrollments"`
	Total       int64         `json:"total"`
}
