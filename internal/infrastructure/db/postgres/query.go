package postgres

import (
	"fmt"
	"strings"

	"github.com/sohhamm/personal-finance-app/internal/core/domain"
	"github.com/sohhamm/personal-finance-app/internal/core/ports"
)

const transactionColumns = `id::text, user_id::text, recipient_sender, category, transaction_date, amount, transaction_type, created_at, updated_at`

// orderBy is the only source of ORDER BY text; caller input never reaches it.
var orderBy = map[domain.SortOrder]string{
	domain.SortLatest:  "transaction_date DESC, id",
	domain.SortOldest:  "transaction_date ASC, id",
	domain.SortHighest: "amount DESC, id",
	domain.SortLowest:  "amount ASC, id",
	domain.SortAZ:      "recipient_sender ASC, id",
	domain.SortZA:      "recipient_sender DESC, id",
}

// listQuery accumulates predicates and their bound arguments.
type listQuery struct {
	where []string
	args  []any
}

// bind appends v to the argument list and returns its placeholder.
func (q *listQuery) bind(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func newListQuery(f ports.TransactionFilter) *listQuery {
	q := &listQuery{}
	q.where = append(q.where, "user_id = "+q.bind(f.OwnerID))

	if f.Category != "" {
		q.where = append(q.where, "category = "+q.bind(f.Category))
	}
	if f.Search != "" {
		name := q.bind("%" + escapeLike(f.Search) + "%")
		amount := q.bind(f.Search)
		q.where = append(q.where, fmt.Sprintf("(recipient_sender ILIKE %s OR CAST(amount AS TEXT) = %s)", name, amount))
	}
	if !f.From.IsZero() {
		q.where = append(q.where, "transaction_date >= "+q.bind(f.From))
	}
	if !f.To.IsZero() {
		q.where = append(q.where, "transaction_date <= "+q.bind(f.To))
	}
	return q
}

// countSQL renders the total-match query. Its arguments are q.args.
func (q *listQuery) countSQL() string {
	return "SELECT COUNT(*) FROM transactions WHERE " + strings.Join(q.where, " AND ")
}

// pageSQL renders the page query and returns it with its full argument list.
func (q *listQuery) pageSQL(sort domain.SortOrder, limit, offset int) (string, []any) {
	order, ok := orderBy[sort]
	if !ok {
		order = orderBy[domain.SortLatest]
	}

	args := make([]any, len(q.args), len(q.args)+2)
	copy(args, q.args)
	args = append(args, limit, offset)

	sql := fmt.Sprintf("SELECT %s FROM transactions WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		transactionColumns,
		strings.Join(q.where, " AND "),
		order,
		len(args)-1,
		len(args),
	)
	return sql, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in s match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
