package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&College{},
		&User{},
		&RewardPoint{},
		&PointTransaction{},
		&RewardPool{},
		&PoolTransaction{},
		&Product{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&Post{},
		&PostIgnite{},
	)
}
