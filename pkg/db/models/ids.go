package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ensureID assigns a fresh UUID when the caller left the primary key empty.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (l *Location) BeforeCreate(*gorm.DB) error      { ensureID(&l.ID); return nil }
func (i *InventoryItem) BeforeCreate(*gorm.DB) error { ensureID(&i.ID); return nil }
func (u *User) BeforeCreate(*gorm.DB) error          { ensureID(&u.ID); return nil }
func (c *CrewEmail) BeforeCreate(*gorm.DB) error     { ensureID(&c.ID); return nil }
func (o *LocationOrder) BeforeCreate(*gorm.DB) error { ensureID(&o.ID); return nil }
func (n *Notice) BeforeCreate(*gorm.DB) error        { ensureID(&n.ID); return nil }
