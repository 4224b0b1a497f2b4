// Package models defines server-side data models persisted in the database.
package models

import (
	"fmt"
	"time"
)

// SecurityQuestion is the closed set of recovery questions a user can pick.
type SecurityQuestion string

const (
	QuestionFood    SecurityQuestion = "comida"
	QuestionSinger  SecurityQuestion = "cantante"
	QuestionCountry SecurityQuestion = "pais"
)

// SecurityQuestions lists every valid question.
var SecurityQuestions = []SecurityQuestion{QuestionFood, QuestionSinger, QuestionCountry}

func (q SecurityQuestion) Valid() bool {
	for _, v := range SecurityQuestions {
		if q == v {
			return true
		}
	}
	return false
}

func ParseSecurityQuestion(s string) (SecurityQuestion, error) {
	q := SecurityQuestion(s)
	if !q.Valid() {
		return "", fmt.Errorf("unknown security question %q", s)
	}
	return q, nil
}

// User is a registered account. Email is stored lower-cased and trimmed.
// FailedLoginAttempts and AccountLockedUntil belong to the login state machine.
type User struct {
	ID                  string
	Email               string
	PasswordHash        string
	Name                string
	Roles               []string
	Question            SecurityQuestion
	AnswerHash          string
	FailedLoginAttempts int
	AccountLockedUntil  *time.Time
	CreatedAt           time.Time
}

// LockedAt reports whether the account is inside its lockout window at now.
func (u *User) LockedAt(now time.Time) bool {
	return u.AccountLockedUntil != nil && u.AccountLockedUntil.After(now)
}
