package model

import (
	"time"

	"gorm.io/gorm"
)

type Todo struct {
	gorm.Model
	Text      string     `gorm:"column:text;not null"`
	Completed bool       `gorm:"column:completed;default:false;not null;index:idx_todos_user_completed,priority:2"`
	Priority  string     `gorm:"column:priority;default:medium;not null"`
	DueDate   *time.Time `gorm:"column:due_date;default:null"`
	// Owner. Immutable after creation; every query is scoped by it.
	UserID uint `gorm:"column:user_id;not null;index;index:idx_todos_user_completed,priority:1"`
}
