package aggregate

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/pgEdge/pgedge-vendorsummary/internal/logging"
)

// LogPreview logs the first n rows as they came out of the engine, NULLs
// included.
func LogPreview(rows []Row, n int) {
	for i := 0; i < n && i < len(rows); i++ {
		r := rows[i]
		logging.Info().
			Str("stage", "aggregate").
			Int("row", i).
			Func(func(e *zerolog.Event) {
				if r.VendorNumber.Valid {
					e.Int64("vendor_number", r.VendorNumber.Int64)
				}
			}).
			Str("vendor_name", r.VendorName.String).
			Str("brand", r.Brand.String).
			Str("volume", r.Volume.String).
			Func(floatField("total_purchase_dollars", r.TotalPurchaseDollars)).
			Func(floatField("total_sales_dollars", r.TotalSalesDollars)).
			Func(floatField("freight_cost", r.FreightCost)).
			Msg("Preview")
	}
}

func floatField(key string, f pgtype.Float8) func(*zerolog.Event) {
	return func(e *zerolog.Event) {
		if f.Valid {
			e.Float64(key, f.Float64)
		} else {
			e.Interface(key, nil)
		}
	}
}
