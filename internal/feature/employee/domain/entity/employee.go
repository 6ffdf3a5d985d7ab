// Package entity defines the domain models for the employee feature.
package entity

import "time"

// Section is an organizational unit employees can belong to.
type Section struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Employee is a staff record, optionally attached to a Section.
type Employee struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	WorkHours string    `gorm:"size:50"`
	SectionID *uint     `gorm:"index"`
	Section   *Section  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
