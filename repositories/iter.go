package repositories

import (
	"iter"

	"gorm.io/gorm"
)

// scanEach streams the rows selected by build one model at a time.
// The query is built and run when iteration starts, so ranging over the
// sequence twice re-executes it. The connection is held until iteration ends.
func scanEach[T any](build func() *gorm.DB) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		q := build()
		rows, err := q.Rows()
		if err != nil {
			yield(zero, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var item T
			if err := q.ScanRows(rows, &item); err != nil {
				yield(zero, err)
				return
			}
			if !yield(item, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(zero, err)
		}
	}
}
