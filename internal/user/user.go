package user

import (
	"strings"

	"github.com/frahmantamala/shopfloor-tasks/internal/auth"
	"github.com/frahmantamala/shopfloor-tasks/internal/spreadsheet"
)

// User is one row of the users sheet. Identity is the username, which the sheet does not
// guarantee to be unique.
type User struct {
	Row        int    `json:"row"`
	Username   string `json:"username"`
	Password   string `json:"-"`
	Role       string `json:"role"`
	Active     string `json:"active"`
	Department string `json:"department"`
}

const activeDefault = "TRUE"

// IsActive is false only for an explicit FALSE in the active column.
func (u *User) IsActive() bool {
	return u.Active != "FALSE"
}

func (u *User) Identity(username string) auth.Identity {
	return auth.Identity{Username: username, Role: u.Role, Department: u.Department}
}

const (
	FieldUsername   = "username"
	FieldPassword   = "password"
	FieldRole       = "role"
	FieldActive     = "active"
	FieldDepartment = "department"
)

// Schema lists the header labels accepted for each users-sheet column, highest priority first.
var Schema = spreadsheet.Schema{
	{Name: FieldUsername, Synonyms: []string{"userne", "username", "user", "שם עובד", "שם משתמש"}},
	{Name: FieldPassword, Synonyms: []string{"password", "pass", "סיסמה", "סיסמא"}},
	{Name: FieldRole, Synonyms: []string{"role", "דרגה", "תפקיד"}},
	{Name: FieldActive, Synonyms: []string{"active", "פעיל", "סטטוס"}},
	{Name: FieldDepartment, Synonyms: []string{"department", "dept", "מחלקה"}},
}

// FromRow maps one data row. sheetRow is the 1-based row number in the sheet.
func FromRow(cols spreadsheet.ColumnMap, row []string, sheetRow int) *User {
	active := activeDefault
	if _, ok := cols.Index(FieldActive); ok {
		cell := cols.Cell(row, FieldActive)
		if cell == "" {
			cell = activeDefault
		}
		active = strings.ToUpper(strings.TrimSpace(cell))
	}

	return &User{
		Row:        sheetRow,
		Username:   strings.TrimSpace(cols.Cell(row, FieldUsername)),
		Password:   strings.TrimSpace(cols.Cell(row, FieldPassword)),
		Role:       strings.ToLower(strings.TrimSpace(cols.Cell(row, FieldRole))),
		Active:     active,
		Department: strings.TrimSpace(cols.Cell(row, FieldDepartment)),
	}
}
