package console

import (
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
)

type Column[T any] struct {
	Title string
	Value func(T) string
}

// RenderTable writes rows as space-aligned columns under an upper-case header.
func RenderTable[T any](w io.Writer, rows []T, cols []Column[T]) error {
	table := plainTable(w)
	titles := make([]string, len(cols))
	for i, col := range cols {
		titles[i] = strings.ToUpper(col.Title)
	}
	table.SetHeader(titles)
	for _, row := range rows {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = sanitize(col.Value(row))
		}
		table.Append(cells)
	}
	table.Render()
	return nil
}

// RenderRows writes label/value lines aligned like a table without a header.
func RenderRows(w io.Writer, rows [][]string) {
	table := plainTable(w)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = sanitize(cell)
		}
		table.Append(cells)
	}
	table.Render()
}

// plainTable draws no borders or separators, only columns padded by two
// spaces.
func plainTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}

// ShortID is the prefix shown in tables and accepted by row commands.
func ShortID(id uuid.UUID) string {
	return id.String()[:8]
}

// CategoryNames maps category ids, as rows report them, to display names.
type CategoryNames map[string]string

func NewCategoryNames(categories []domain.Category) CategoryNames {
	names := make(CategoryNames, len(categories))
	for _, c := range categories {
		names[c.ID.String()] = c.Name
	}
	return names
}

func (n CategoryNames) lookup(key string) string {
	if key == "" {
		return "-"
	}
	if name, ok := n[key]; ok {
		return name
	}
	if len(key) > 8 {
		return key[:8]
	}
	return key
}

func TourismColumns(names CategoryNames) []Column[domain.TourismDestination] {
	return []Column[domain.TourismDestination]{
		{Title: "id", Value: func(d domain.TourismDestination) string { return ShortID(d.ID) }},
		{Title: "name", Value: func(d domain.TourismDestination) string { return d.Name }},
		{Title: "category", Value: func(d domain.TourismDestination) string { return names.lookup(d.ItemCategory()) }},
		{Title: "location", Value: func(d domain.TourismDestination) string { return orDash(d.Location) }},
		{Title: "views", Value: func(d domain.TourismDestination) string { return strconv.FormatInt(d.ViewCount, 10) }},
		{Title: "featured", Value: func(d domain.TourismDestination) string { return yesNo(d.IsFeatured) }},
		{Title: "status", Value: func(d domain.TourismDestination) string { return string(d.Status) }},
	}
}

func UmkmColumns(names CategoryNames) []Column[domain.UmkmProduct] {
	return []Column[domain.UmkmProduct]{
		{Title: "id", Value: func(p domain.UmkmProduct) string { return ShortID(p.ID) }},
		{Title: "name", Value: func(p domain.UmkmProduct) string { return p.Name }},
		{Title: "owner", Value: func(p domain.UmkmProduct) string { return p.OwnerName }},
		{Title: "category", Value: func(p domain.UmkmProduct) string { return names.lookup(p.ItemCategory()) }},
		{Title: "price", Value: func(p domain.UmkmProduct) string { return FormatPriceRange(p.Price, p.PriceMax) }},
		{Title: "status", Value: func(p domain.UmkmProduct) string { return string(p.Status) }},
	}
}

func ArticleColumns() []Column[domain.Article] {
	return []Column[domain.Article]{
		{Title: "id", Value: func(a domain.Article) string { return ShortID(a.ID) }},
		{Title: "title", Value: func(a domain.Article) string { return a.Title }},
		{Title: "category", Value: func(a domain.Article) string { return orDash(a.Category) }},
		{Title: "published", Value: func(a domain.Article) string {
			if a.PublishedAt == nil {
				return "-"
			}
			return a.PublishedAt.Format("2006-01-02")
		}},
		{Title: "status", Value: func(a domain.Article) string { return string(a.Status) }},
	}
}

// FormatRupiah renders 15000 as "Rp 15.000".
func FormatRupiah(amount int64) string {
	sign := ""
	if amount < 0 {
		sign, amount = "-", -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return "Rp " + sign + b.String()
}

func FormatPriceRange(price int64, priceMax *int64) string {
	if priceMax == nil || *priceMax == price {
		return FormatRupiah(price)
	}
	return FormatRupiah(price) + " - " + strings.TrimPrefix(FormatRupiah(*priceMax), "Rp ")
}

func orDash(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "-"
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func sanitize(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", "").Replace(s)
}
