package domain

import "github.com/uptrace/bun"

type Preference struct {
	bun.BaseModel `bun:"table:preference,alias:p"`

	Key   string `bun:"key,pk" json:"key"`
	Value string `bun:"value,notnull" json:"value"`
}

// PreferenceEdit sets Key to Value, or removes Key when Value is nil.
type PreferenceEdit struct {
	Key   string  `json:"key" validate:"required,max=255"`
	Value *string `json:"value"`
}
