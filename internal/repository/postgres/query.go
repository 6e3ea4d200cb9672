package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/spenny/spenny-backend/internal/domain"
)

// buildListQuery assembles the listing query shared by the spendings and
// earnings tables. Explicit from/to bounds win over a named period.
func buildListQuery(columns, table string, userID uuid.UUID, filters *domain.TransactionFilters) (string, []any) {
	query := `SELECT ` + columns + ` FROM ` + table + ` WHERE user_id = $1`
	args := []any{userID}

	var from, to *time.Time
	if filters != nil {
		from = filters.From
		to = filters.To
		if from == nil && to == nil && filters.Period != nil && filters.Period.Valid() {
			f, t := filters.Period.Range(time.Now().UTC())
			from, to = &f, &t
		}
	}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
			if pageSize > domain.MaxPageSize {
				pageSize = domain.MaxPageSize
			}
		}
	}
	args = append(args, pageSize)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, (page-1)*pageSize)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	return query, args
}

func scanCategoryTotals(rows pgx.Rows) ([]*domain.CategoryTotal, error) {
	totals := make([]*domain.CategoryTotal, 0)
	for rows.Next() {
		var t domain.CategoryTotal
		var total pgtype.Numeric
		if err := rows.Scan(&t.CategoryID, &total); err != nil {
			return nil, err
		}
		t.Total = pgNumericToDecimal(total)
		totals = append(totals, &t)
	}
	return totals, rows.Err()
}
