package statement

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/43bits/mess-calender-gec/internal/core"
	"github.com/43bits/mess-calender-gec/internal/ledger"
	"github.com/43bits/mess-calender-gec/internal/meal"
)

// ErrStorageDisabled is returned when no bucket is configured.
var ErrStorageDisabled = errors.New("statement storage is not configured")

type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// Statement describes an uploaded monthly bill.
type Statement struct {
	OwnerID string          `json:"owner"`
	Month   string          `json:"month"`
	Meals   int             `json:"meals"`
	Total   decimal.Decimal `json:"total"`
	Key     string          `json:"key"`
	URL     string          `json:"url"`
}

type Service struct {
	entries  ledger.Repository
	uploader Uploader
}

// NewService accepts a nil uploader; Export then fails with
// ErrStorageDisabled.
func NewService(entries ledger.Repository, uploader Uploader) *Service {
	return &Service{entries: entries, uploader: uploader}
}

func (s *Service) Export(ctx context.Context, caller core.Caller, ownerID string, year, month int) (*Statement, error) {
	if ownerID == "" {
		ownerID = caller.ID
	}
	if err := caller.RequireSelfOrAdmin(ownerID); err != nil {
		return nil, err
	}
	if _, err := meal.NewDate(year, month, 1); err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, ErrStorageDisabled
	}

	entries, err := s.entries.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	body, total, n, err := Render(entries, year, month)
	if err != nil {
		return nil, err
	}

	st := &Statement{
		OwnerID: ownerID,
		Month:   meal.MonthKey(year, month),
		Meals:   n,
		Total:   total,
	}
	st.Key = fmt.Sprintf("statements/%s/%s.csv", ownerID, st.Month)

	st.URL, err = s.uploader.Upload(ctx, st.Key, bytes.NewReader(body), "text/csv")
	if err != nil {
		return nil, err
	}

	log.Printf("[STATEMENT] %s exported %s (%d meals, %s)", caller.ID, st.Key, n, total.StringFixed(2))
	return st, nil
}

// Render writes one owner's entries for the month as CSV followed by a
// total row. Entries outside the month are ignored.
func Render(entries []*ledger.Entry, year, month int) ([]byte, decimal.Decimal, int, error) {
	var rows []*ledger.Entry
	for _, e := range entries {
		d := e.Date()
		if d.Year == year && d.Month == month {
			rows = append(rows, e)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"date", "meal", "type", "amount", "createdByAdmin", "modifiedByAdmin"})

	total := decimal.Zero
	for _, e := range rows {
		amount := e.AmountOrZero()
		total = total.Add(amount)
		w.Write([]string{
			e.Date().String(),
			string(e.Meal),
			string(e.Diet),
			amount.StringFixed(2),
			strconv.FormatBool(e.CreatedByAdmin),
			strconv.FormatBool(e.ModifiedByAdmin),
		})
	}
	w.Write([]string{"total", "", "", total.StringFixed(2), "", ""})
	w.Flush()

	if err := w.Error(); err != nil {
		return nil, decimal.Zero, 0, err
	}
	return buf.Bytes(), total, len(rows), nil
}
