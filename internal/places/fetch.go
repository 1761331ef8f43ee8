package places

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gridlens-labs/gridlens/pkg/tabular"
)

// Airport identifies one lookup target: a short code and a full name.
type Airport struct {
	Code string
	Name string
}

// Output columns of FetchRatings.
var ratingColumns = []string{"APT_CODE", "APT_NAME", "GOOGLE_NAME", "GOOGLE_RATING", "GOOGLE_REVIEWS"}

// AirportsFromTable reads lookup targets from a table with APT_CODE and
// APT_NAME columns. Rows with a null code are skipped.
func AirportsFromTable(tbl *tabular.Table) ([]Airport, error) {
	for _, col := range []string{"APT_CODE", "APT_NAME"} {
		if _, ok := tbl.Column(col); !ok {
			return nil, fmt.Errorf("input table missing column %q", col)
		}
	}
	var out []Airport
	for row := 0; row < tbl.Len(); row++ {
		code := tbl.Value(row, "APT_CODE")
		if code.IsNull() {
			continue
		}
		out = append(out, Airport{
			Code: code.String(),
			Name: tbl.Value(row, "APT_NAME").String(),
		})
	}
	return out, nil
}

// FetchRatings looks every airport up sequentially and returns one output
// row per airport. Lookup is two-stage: "<CODE> Airport" first, the full
// name as fallback. When both stages miss, the row keeps null name, rating
// and reviews; that is a recognized empty result. Upstream API failures
// abort the fetch immediately, wrapped with the failing airport's code,
// leaving rows already assembled untouched in the returned error path.
func (c *Client) FetchRatings(ctx context.Context, airports []Airport, logger *slog.Logger) (*tabular.Table, error) {
	out := tabular.MustNew(ratingColumns...)

	for i, apt := range airports {
		query := apt.Code + " Airport"
		logger.Info("searching place", "index", i+1, "total", len(airports), "query", query)

		id, found, err := c.FindPlaceID(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("airport %s: %w", apt.Code, err)
		}
		if !found && apt.Name != "" {
			logger.Debug("code lookup missed, retrying with full name", "code", apt.Code, "name", apt.Name)
			id, found, err = c.FindPlaceID(ctx, apt.Name)
			if err != nil {
				return nil, fmt.Errorf("airport %s: %w", apt.Code, err)
			}
		}

		if !found {
			logger.Warn("no place found", "code", apt.Code)
			out.AppendRow(
				tabular.String(apt.Code),
				tabular.String(apt.Name),
				tabular.Null(),
				tabular.Null(),
				tabular.Null(),
			)
			continue
		}

		details, err := c.Details(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("airport %s: %w", apt.Code, err)
		}
		out.AppendRow(
			tabular.String(apt.Code),
			tabular.String(apt.Name),
			tabular.String(details.Name),
			floatCell(details.Rating),
			intCell(details.Reviews),
		)
	}
	return out, nil
}

func floatCell(f *float64) tabular.Cell {
	if f == nil {
		return tabular.Null()
	}
	return tabular.Number(*f)
}

func intCell(n *int) tabular.Cell {
	if n == nil {
		return tabular.Null()
	}
	return tabular.Number(float64(*n))
}
