package repository

import "errors"

// Sentinel errors returned by the in-memory repositories.
var (
	ErrNotFound = errors.New("repository: record not found")
	ErrConflict = errors.New("repository: record already exists")
)

func paginate(total, page, size int) (start, end int) {
	if size <= 0 {
		size = 10
	}
	if page < 1 {
		page = 1
	}
	start = (page - 1) * size
	if start > total {
		start = total
	}
	end = start + size
	if end > total {
		end = total
	}
	return start, end
}

func totalPages(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
