package reminder

import "errors"

type OrderBy struct {
	v string
}

func (o OrderBy) String() string {
	return o.v
}

var (
	OrderByNotSet          OrderBy = OrderBy{}
	OrderByIDAsc           OrderBy = OrderBy{v: "id_asc"}
	OrderByScheduledAtAsc  OrderBy = OrderBy{v: "scheduled_at_asc"}
	OrderByScheduledAtDesc OrderBy = OrderBy{v: "scheduled_at_desc"}
)

var ErrParseOrderBy = errors.New("invalid order")

func ParseOrderBy(value string) (OrderBy, error) {
	switch value {
	case "id_asc":
		return OrderByIDAsc, nil
	case "scheduled_at_asc":
		return OrderByScheduledAtAsc, nil
	case "scheduled_at_desc":
		return OrderByScheduledAtDesc, nil
	default:
		return OrderByNotSet, ErrParseOrderBy
	}
}
