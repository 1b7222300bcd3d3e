package repositories

import "gorm.io/gorm"

// Page selects a window of an ordered list. A zero Limit means the whole list;
// Offset only applies together with a Limit.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) scope(db *gorm.DB) *gorm.DB {
	if p.Limit <= 0 {
		return db
	}
	return db.Limit(p.Limit).Offset(p.Offset)
}
