package domain

import (
	"github.com/uptrace/bun"
)

type Employee struct {
	bun.BaseModel `bun:"table:employee,alias:e"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull" json:"name"`
}

// EmployeeEdit creates an employee when ID is nil and renames an existing one otherwise.
type EmployeeEdit struct {
	ID   *int64 `json:"id" validate:"omitempty,gt=0"`
	Name string `json:"name" validate:"required,max=255"`
}

// EmployeeRef materializes a joined employee reference. Both the joined id and name
// must be present; any other combination means the row has no employee.
func EmployeeRef(id *int64, name *string) *Employee {
	if id == nil || name == nil {
		return nil
	}
	return &Employee{ID: *id, Name: *name}
}
