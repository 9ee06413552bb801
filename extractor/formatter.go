package extractor

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Aashish23092/marketplace-invoice-importer/dto"
	"github.com/Aashish23092/marketplace-invoice-importer/utils"
)

// FormatRow returns the row as a map holding exactly the 21 A-U keys.
func FormatRow(row dto.PeakRow) map[string]string {
	values := row.Values()
	out := make(map[string]string, len(dto.Columns))
	for i, col := range dto.Columns {
		out[col.Key] = values[i]
	}
	return out
}

// FormatMap validates a row given as a PeakRow or a flat key/value map and
// returns it with every A-U key present. Unknown keys are dropped. Anything
// that is not a flat mapping of scalars yields ErrMalformedRow.
func FormatMap(v any) (map[string]string, error) {
	row, err := RowFromMap(v)
	if err != nil {
		return nil, err
	}
	return FormatRow(row), nil
}

// SanitizeRow re-applies the row invariants to a row that was edited outside
// the extractors. Unreadable money, dates and tax IDs are cleared rather
// than exported as is.
func SanitizeRow(row dto.PeakRow) dto.PeakRow {
	for _, money := range []*string{&row.NUnitPrice, &row.RPaidAmount, &row.PWht} {
		if *money != "" {
			*money = utils.ParseMoney(*money)
		}
	}
	if row.PWht != "" && row.SPnd == "" {
		row.SPnd = pndCorporate
	}

	for _, date := range []*string{&row.BDocDate, &row.HInvoiceDate, &row.ITaxPurchaseDate} {
		if *date != "" && !utils.ValidYYYYMMDD(*date) {
			*date = utils.ParseDateToYYYYMMDD(*date)
		}
	}

	if row.CReference == "" {
		row.CReference = row.GInvoiceNo
	}
	if row.GInvoiceNo == "" {
		row.GInvoiceNo = row.CReference
	}

	if row.FBranch5 != "" {
		row.FBranch5 = utils.FormatBranch5(row.FBranch5)
	}
	if row.ETaxID13 != "" {
		row.ETaxID13 = taxID13(row.ETaxID13)
	}
	return row
}

// taxID13 drops separators and returns "" unless 13 digits remain.
func taxID13(s string) string {
	digits := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-':
			return -1
		}
		return 'x'
	}, s)
	if len(digits) != 13 || strings.Contains(digits, "x") {
		return ""
	}
	return digits
}

// RowFromMap converts the inputs accepted by FormatMap into a PeakRow.
func RowFromMap(v any) (dto.PeakRow, error) {
	switch r := v.(type) {
	case dto.PeakRow:
		return r, nil
	case *dto.PeakRow:
		if r == nil {
			return dto.PeakRow{}, fmt.Errorf("%w: nil row", dto.ErrMalformedRow)
		}
		return *r, nil
	case map[string]string:
		values := make([]string, len(dto.Columns))
		for i, col := range dto.Columns {
			values[i] = r[col.Key]
		}
		return dto.RowFromValues(values), nil
	case map[string]any:
		values := make([]string, len(dto.Columns))
		for i, col := range dto.Columns {
			s, err := scalarString(r[col.Key])
			if err != nil {
				return dto.PeakRow{}, fmt.Errorf("%w: field %s: %v", dto.ErrMalformedRow, col.Key, err)
			}
			values[i] = s
		}
		return dto.RowFromValues(values), nil
	}
	return dto.PeakRow{}, fmt.Errorf("%w: got %T", dto.ErrMalformedRow, v)
}

func scalarString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	}
	return "", fmt.Errorf("unsupported value of type %T", v)
}
