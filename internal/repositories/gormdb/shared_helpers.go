package gormdb

import (
	"fmt"

	"gorm.io/gorm"
)

// applyPaginationAndSorting applies limit, offset and ordering to a query.
// sortBy is checked against the allowed column set to prevent injection;
// unknown columns fall back to "id".
func applyPaginationAndSorting(query *gorm.DB, limit, offset int, sortBy, sortOrder string, allowed map[string]bool) *gorm.DB {
	if sortBy == "" || !allowed[sortBy] {
		sortBy = "id"
	}
	if sortOrder != "desc" {
		sortOrder = "asc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if limit > 0 {
		if limit > 100 {
			limit = 100
		}
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
