package scope

import (
	"gorm.io/gorm"

	"github.com/PablitoBueno/agroManager/internal/models"
)

// Scope is an ownership gate: every query it hands out is pre-filtered by
// the verified user id, so handlers never touch an unscoped owned table.
type Scope struct {
	db     *gorm.DB
	userID uint
}

func New(db *gorm.DB, userID uint) Scope {
	return Scope{db: db, userID: userID}
}

func (s Scope) UserID() uint {
	return s.userID
}

func (s Scope) Cultures() *gorm.DB {
	return s.db.Model(&models.Culture{}).Where("user_id = ?", s.userID)
}

func (s Scope) Productions() *gorm.DB {
	return s.db.Model(&models.Production{}).Where("user_id = ?", s.userID)
}

func (s Scope) Stock() *gorm.DB {
	return s.db.Model(&models.StockItem{}).Where("user_id = ?", s.userID)
}
