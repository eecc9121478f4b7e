package domain

import (
	"time"

	"github.com/uptrace/bun"
)

const day = 24 * time.Hour

// Appointment is a customer's appointment as returned to callers. EndDate and
// PeriodDays are derived at read time and never stored.
type Appointment struct {
	ID              int64     `json:"id"`
	CustomerID      int64     `json:"customer_id"`
	Number          int64     `json:"number"`
	StartDate       time.Time `json:"start_date"`
	DurationMinutes int64     `json:"duration_minutes"`
	EndDate         time.Time `json:"end_date"`
	PeriodDays      *int64    `json:"period_days"`
	Treatment       string    `json:"treatment"`
	Price           int64     `json:"price"`
	Employee        *Employee `json:"employee"`
}

type AppointmentEdit struct {
	ID              *int64    `json:"id" validate:"omitempty,gt=0"`
	CustomerID      int64     `json:"customer_id" validate:"gt=0"`
	StartDate       time.Time `json:"start_date" validate:"required"`
	DurationMinutes int64     `json:"duration_minutes" validate:"gte=0"`
	Treatment       string    `json:"treatment"`
	Price           int64     `json:"price" validate:"gte=0"`
	EmployeeID      *int64    `json:"employee_id" validate:"omitempty,gt=0"`
}

type AppointmentRecord struct {
	bun.BaseModel `bun:"table:appointment,alias:a"`

	ID              int64     `bun:"id,pk,autoincrement"`
	Number          int64     `bun:"number,notnull"`
	CustomerID      int64     `bun:"customer_id,notnull"`
	StartDate       time.Time `bun:"start_date,notnull"`
	DurationMinutes int64     `bun:"duration_minutes,notnull"`
	Treatment       string    `bun:"treatment,notnull"`
	Price           int64     `bun:"price,notnull"`
	EmployeeID      *int64    `bun:"employee_id"`
}

// Record builds the stored row. number is only written on insert.
func (e AppointmentEdit) Record(number int64) AppointmentRecord {
	rec := AppointmentRecord{
		Number:          number,
		CustomerID:      e.CustomerID,
		StartDate:       e.StartDate,
		DurationMinutes: e.DurationMinutes,
		Treatment:       e.Treatment,
		Price:           e.Price,
		EmployeeID:      e.EmployeeID,
	}
	if e.ID != nil {
		rec.ID = *e.ID
	}
	return rec
}

// AppointmentRow is an appointment joined with its performing employee.
type AppointmentRow struct {
	ID              int64     `bun:"id"`
	CustomerID      int64     `bun:"customer_id"`
	Number          int64     `bun:"number"`
	StartDate       time.Time `bun:"start_date"`
	DurationMinutes int64     `bun:"duration_minutes"`
	Treatment       string    `bun:"treatment"`
	Price           int64     `bun:"price"`
	EmployeeID      *int64    `bun:"employee_id"`
	EmployeeName    *string   `bun:"employee_name"`
}

// ToAppointment maps a single row. The end date is computed; the period needs the
// chronological neighbour and is left empty.
func (r AppointmentRow) ToAppointment() Appointment {
	return Appointment{
		ID:              r.ID,
		CustomerID:      r.CustomerID,
		Number:          r.Number,
		StartDate:       r.StartDate,
		DurationMinutes: r.DurationMinutes,
		EndDate:         EndDate(r.StartDate, r.DurationMinutes),
		Treatment:       r.Treatment,
		Price:           r.Price,
		Employee:        EmployeeRef(r.EmployeeID, r.EmployeeName),
	}
}

func EndDate(start time.Time, durationMinutes int64) time.Time {
	return start.Add(time.Duration(durationMinutes) * time.Minute)
}

// PeriodDays counts whole days from prev to next, truncated toward zero.
func PeriodDays(prev, next time.Time) int64 {
	return int64(next.Sub(prev) / day)
}

// EnrichAppointments fills EndDate and PeriodDays in one pass. appts must be in
// ascending start order; the first entry gets no period.
func EnrichAppointments(appts []Appointment) {
	var last *time.Time
	for i := range appts {
		a := &appts[i]
		a.EndDate = EndDate(a.StartDate, a.DurationMinutes)
		a.PeriodDays = nil
		if last != nil {
			p := PeriodDays(*last, a.StartDate)
			a.PeriodDays = &p
		}
		start := a.StartDate
		last = &start
	}
}
