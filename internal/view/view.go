// Package view строит производное представление списка камер:
// поиск по тексту, фильтр по категории и сортировку по уровню подтопления.
package view

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"flood-monitor/internal/registry"
)

// Category - категория фильтра
type Category string

const (
	CategoryAll    Category = "all"
	CategoryOnline Category = "online"
	CategoryFlood  Category = "flood"
)

// SortOrder - направление сортировки по уровню подтопления
type SortOrder string

const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

var (
	ErrUnknownCategory  = errors.New("unknown category")
	ErrUnknownSortOrder = errors.New("unknown sort order")
)

// Query - параметры представления
type Query struct {
	Text     string
	Category Category
	Sort     SortOrder
}

// ParseCategory разбирает категорию; пустая строка означает all
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case "", CategoryAll:
		return CategoryAll, nil
	case CategoryOnline, CategoryFlood:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

// ParseSortOrder разбирает направление; пустая строка и "none" - без сортировки
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortNone, "none":
		return SortNone, nil
	case SortAsc, SortDesc:
		return o, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSortOrder, s)
	}
}

// ParseQuery собирает Query из строковых параметров запроса
func ParseQuery(text, category, sortOrder string) (Query, error) {
	c, err := ParseCategory(category)
	if err != nil {
		return Query{}, err
	}
	o, err := ParseSortOrder(sortOrder)
	if err != nil {
		return Query{}, err
	}
	return Query{Text: text, Category: c, Sort: o}, nil
}

// Derive возвращает новый срез с камерами, прошедшими фильтры.
// Входной срез не изменяется. Сортировка выполняется только для категории flood
// и стабильна: камеры одного уровня сохраняют исходный порядок.
func Derive(cameras []registry.CameraRecord, q Query) []registry.CameraRecord {
	needle := strings.ToLower(q.Text)
	result := make([]registry.CameraRecord, 0, len(cameras))

	for _, c := range cameras {
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Name), needle) &&
			!strings.Contains(strings.ToLower(c.Location), needle) {
			continue
		}

		switch q.Category {
		case CategoryOnline:
			if c.Status != registry.StatusOnline {
				continue
			}
		case CategoryFlood:
			if !c.FloodLevel.Present() {
				continue
			}
		}

		result = append(result, c.Clone())
	}

	if q.Category == CategoryFlood && q.Sort != SortNone {
		sort.SliceStable(result, func(i, j int) bool {
			a, b := result[i].FloodLevel.Ordinal(), result[j].FloodLevel.Ordinal()
			if q.Sort == SortAsc {
				return a < b
			}
			return a > b
		})
	}

	return result
}
