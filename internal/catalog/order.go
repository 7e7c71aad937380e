package catalog

import (
	"cmp"
	"strings"

	"github.com/prperemyshlev/storefront/internal/domain"
)

// Field is a sortable product attribute
type Field string

const (
	FieldPrice     Field = "price"
	FieldName      Field = "name"
	FieldRating    Field = "rating"
	FieldCreatedAt Field = "created_at"
	FieldSeq       Field = "seq"
)

type OrderTerm struct {
	Field Field
	Desc  bool
}

// Order is a lexicographic list of terms. Every compiled Order ends with
// created_at and seq so that it is total.
type Order []OrderTerm

func orderFor(key SortKey) Order {
	oldestFirst := []OrderTerm{{Field: FieldCreatedAt}, {Field: FieldSeq}}
	switch key {
	case SortPriceAsc:
		return append(Order{{Field: FieldPrice}}, oldestFirst...)
	case SortPriceDesc:
		return append(Order{{Field: FieldPrice, Desc: true}}, oldestFirst...)
	case SortNameAsc:
		return append(Order{{Field: FieldName}}, oldestFirst...)
	case SortNameDesc:
		return append(Order{{Field: FieldName, Desc: true}}, oldestFirst...)
	case SortRating:
		return append(Order{{Field: FieldRating, Desc: true}}, oldestFirst...)
	default:
		return Order{{Field: FieldCreatedAt, Desc: true}, {Field: FieldSeq, Desc: true}}
	}
}

// Compare returns a negative number when a sorts before b, positive when
// after and zero when the order cannot tell them apart.
func (o Order) Compare(a, b *domain.Product) int {
	for _, term := range o {
		var c int
		switch term.Field {
		case FieldPrice:
			c = cmp.Compare(a.Price, b.Price)
		case FieldName:
			c = strings.Compare(a.Name, b.Name)
		case FieldRating:
			c = cmp.Compare(a.Ratings.Average, b.Ratings.Average)
		case FieldCreatedAt:
			c = a.CreatedAt.Compare(b.CreatedAt)
		case FieldSeq:
			c = cmp.Compare(a.Seq, b.Seq)
		}
		if term.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}
