package export

import (
	"context"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/recur/internal/item"
)

// ItemLister is the part of the item service exports read from.
type ItemLister interface {
	List(ctx context.Context, filter item.ListFilter) ([]*item.Item, error)
}

// Service exports tracked items.
type Service struct {
	items ItemLister
}

func NewService(items ItemLister) *Service {
	return &Service{items: items}
}

// Items writes the tracked items matching filter to w.
func (s *Service) Items(ctx context.Context, filter item.ListFilter, f Format, w io.Writer) error {
	items, err := s.items.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing items: %w", err)
	}

	return Write(w, f, RowsFromItems(items))
}
