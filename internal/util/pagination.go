package util

// SkipLimit clamps list-endpoint pagination parameters.
func SkipLimit(skip, limit, def, max int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > max {
		limit = def
	}
	return skip, limit
}

// Calculate converts page/size search parameters into an offset and size.
func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	from = (page - 1) * size
	return from, size
}
