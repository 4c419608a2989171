package repository

import "gorm.io/gorm"

// paginate 分页 scope，pageSize<=0 表示不分页
func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if page < 1 {
			page = 1
		}
		return db.Limit(pageSize).Offset((page - 1) * pageSize)
	}
}

// findPage 先统计总数再取当前页，preloads 仅作用于取数
func findPage[T any](query *gorm.DB, page, pageSize int, order string, preloads ...string) ([]T, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := make([]T, 0)
	if total == 0 {
		return rows, 0, nil
	}
	query = query.Scopes(paginate(page, pageSize))
	for _, name := range preloads {
		query = query.Preload(name)
	}
	if err := query.Order(order).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
