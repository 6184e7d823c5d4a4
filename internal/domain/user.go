package domain

import "time"

// Universities students can register under. Values must match exactly;
// no partial matching or normalization is applied.
const (
	UniversityUniport = "University of Porthacourt (UNIPORT)"
	UniversityRSU     = "Rivers State University (RSU)"
)

// Universities lists every accepted university value.
var Universities = []string{UniversityUniport, UniversityRSU}

type User struct {
	UserID            string     `json:"id" dynamodbav:"user_id"`
	Email             string     `json:"email" dynamodbav:"email"`
	FirstName         string     `json:"first_name" dynamodbav:"first_name"`
	LastName          string     `json:"last_name" dynamodbav:"last_name"`
	University        string     `json:"university" dynamodbav:"university"`
	PasswordHash      string     `json:"-" dynamodbav:"password_hash"`
	Role              string     `json:"role" dynamodbav:"role"`
	IsVerified        bool       `json:"is_verified" dynamodbav:"is_verified"`
	IsStudentVerified bool       `json:"is_student_verified" dynamodbav:"is_student_verified"`
	Enable            bool       `json:"enable" dynamodbav:"enable"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt         time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt         time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreateUserRequest struct {
	Email      string `json:"email" validate:"required,email,school_email"`
	Password   string `json:"password" validate:"required,password_strength"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	University string `json:"university" validate:"required,university"`
}

type UpdateUserRequest struct {
	Email      *string `json:"email" validate:"omitempty,email,school_email"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	University *string `json:"university" validate:"omitempty,university"`
}
