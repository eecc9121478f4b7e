package domain

import (
	"github.com/uptrace/bun"
)

type Customer struct {
	ID                  int64     `json:"id"`
	Title               string    `json:"title"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	AddressStreet       string    `json:"address_street"`
	AddressCity         string    `json:"address_city"`
	Phone               string    `json:"phone"`
	MobilePhone         string    `json:"mobile_phone"`
	Birthdate           *Date     `json:"birthdate"`
	CustomerSince       *Date     `json:"customer_since"`
	Note                string    `json:"note"`
	ResponsibleEmployee *Employee `json:"responsible_employee"`
}

type CustomerEdit struct {
	ID                    *int64 `json:"id" validate:"omitempty,gt=0"`
	Title                 string `json:"title"`
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	AddressStreet         string `json:"address_street"`
	AddressCity           string `json:"address_city"`
	Phone                 string `json:"phone"`
	MobilePhone           string `json:"mobile_phone"`
	Birthdate             *Date  `json:"birthdate"`
	CustomerSince         *Date  `json:"customer_since"`
	Note                  string `json:"note"`
	ResponsibleEmployeeID *int64 `json:"responsible_employee_id" validate:"omitempty,gt=0"`
}

// CustomerRecord is the stored customer row. Insert and update both write every
// column of this struct, so the two statements always bind the same fields.
type CustomerRecord struct {
	bun.BaseModel `bun:"table:customer,alias:c"`

	ID                    int64  `bun:"id,pk,autoincrement"`
	Title                 string `bun:"title,notnull"`
	FirstName             string `bun:"first_name,notnull"`
	LastName              string `bun:"last_name,notnull"`
	AddressStreet         string `bun:"address_street,notnull"`
	AddressCity           string `bun:"address_city,notnull"`
	Phone                 string `bun:"phone,notnull"`
	MobilePhone           string `bun:"mobile_phone,notnull"`
	Birthdate             *Date  `bun:"birthdate"`
	CustomerSince         *Date  `bun:"customer_since"`
	Note                  string `bun:"note,notnull"`
	ResponsibleEmployeeID *int64 `bun:"responsible_employee_id"`
}

func (e CustomerEdit) Record() CustomerRecord {
	rec := CustomerRecord{
		Title:                 e.Title,
		FirstName:             e.FirstName,
		LastName:              e.LastName,
		AddressStreet:         e.AddressStreet,
		AddressCity:           e.AddressCity,
		Phone:                 e.Phone,
		MobilePhone:           e.MobilePhone,
		Birthdate:             e.Birthdate,
		CustomerSince:         e.CustomerSince,
		Note:                  e.Note,
		ResponsibleEmployeeID: e.ResponsibleEmployeeID,
	}
	if e.ID != nil {
		rec.ID = *e.ID
	}
	return rec
}

// CustomerRow is a customer joined with its responsible employee.
type CustomerRow struct {
	ID                      int64   `bun:"id"`
	Title                   string  `bun:"title"`
	FirstName               string  `bun:"first_name"`
	LastName                string  `bun:"last_name"`
	AddressStreet           string  `bun:"address_street"`
	AddressCity             string  `bun:"address_city"`
	Phone                   string  `bun:"phone"`
	MobilePhone             string  `bun:"mobile_phone"`
	Birthdate               *Date   `bun:"birthdate"`
	CustomerSince           *Date   `bun:"customer_since"`
	Note                    string  `bun:"note"`
	ResponsibleEmployeeID   *int64  `bun:"responsible_employee_id"`
	ResponsibleEmployeeName *string `bun:"responsible_employee_name"`
}

func (r CustomerRow) ToCustomer() Customer {
	return Customer{
		ID:                  r.ID,
		Title:               r.Title,
		FirstName:           r.FirstName,
		LastName:            r.LastName,
		AddressStreet:       r.AddressStreet,
		AddressCity:         r.AddressCity,
		Phone:               r.Phone,
		MobilePhone:         r.MobilePhone,
		Birthdate:           r.Birthdate,
		CustomerSince:       r.CustomerSince,
		Note:                r.Note,
		ResponsibleEmployee: EmployeeRef(r.ResponsibleEmployeeID, r.ResponsibleEmployeeName),
	}
}
