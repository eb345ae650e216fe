// Package models содержит доменные сущности discussions-сервиса.
package models

// UserRole — роль пользователя в учебном пространстве.
type UserRole int32

const (
	// RoleInstructor — преподаватель; только он может создавать обсуждения.
	RoleInstructor UserRole = 1
	// RoleStudent — студент.
	RoleStudent UserRole = 2
)

// String — человекочитаемое имя роли (для ответов наружу).
func (r UserRole) String() string {
	switch r {
	case RoleInstructor:
		return "INSTRUCTOR"
	case RoleStudent:
		return "STUDENT"
	default:
		return "UNKNOWN"
	}
}

// User — запись справочника пользователей.
// ID — ObjectID MongoDB в hex-представлении; наружу отдаётся строкой.
// Username уникален (уникальный индекс в коллекции users).
type User struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
	Role      UserRole
}
