package extractor

import (
	"fmt"
	"strings"

	"github.com/Aashish23092/marketplace-invoice-importer/dto"
)

const (
	descriptionSeparator = " | "
	summaryItems         = 3
)

// feeBreakdown is the itemized fee list of one statement.
type feeBreakdown struct {
	title string
	items []dto.FeeItem
	line  func(dto.FeeItem) string
}

// summary names the first few fees, e.g.
// "Shopee Fees: Commission fee, Service fee, Transaction fee (+2 more)".
func (b feeBreakdown) summary() string {
	if len(b.items) == 0 {
		return ""
	}
	names := make([]string, 0, summaryItems)
	for _, it := range b.items[:min(summaryItems, len(b.items))] {
		names = append(names, it.Name)
	}
	s := b.title + ": " + strings.Join(names, ", ")
	if extra := len(b.items) - summaryItems; extra > 0 {
		s += fmt.Sprintf(" (+%d more)", extra)
	}
	return s
}

func (b feeBreakdown) detail() string {
	if len(b.items) == 0 {
		return ""
	}
	lines := make([]string, len(b.items))
	for i, it := range b.items {
		lines[i] = b.line(it)
	}
	return strings.Join(lines, "\n")
}

func dashLine(it dto.FeeItem) string {
	return fmt.Sprintf("- %s: ฿%s", it.Name, it.Amount)
}

// composition collects the optional parts of the description and note.
type composition struct {
	header      string
	fees        feeBreakdown
	seller      string
	sellerLines []string
	clientLines []string
	period      string
	amounts     dto.AmountSet
	wht         withholding
}

func (c composition) description() string {
	return joinNonEmpty(descriptionSeparator,
		c.header,
		c.fees.summary(),
		c.seller,
		c.period,
		amountLine(c.amounts),
		c.wht.summary(),
	)
}

func (c composition) note() string {
	parts := append([]string{}, c.sellerLines...)
	parts = append(parts, c.clientLines...)
	parts = append(parts, c.period)
	if d := c.fees.detail(); d != "" {
		parts = append(parts, "Fee Breakdown:\n"+d)
	}
	if c.wht.amount != "" {
		parts = append(parts, fmt.Sprintf("Withholding Tax %s: ฿%s", c.wht.rate, c.wht.amount))
	}
	return joinNonEmpty("\n", parts...)
}

func (w withholding) summary() string {
	if w.amount == "" {
		return ""
	}
	return fmt.Sprintf("WHT %s: ฿%s", w.rate, w.amount)
}

// amountLine renders "Subtotal ฿x + VAT ฿y = Total ฿z", dropping the parts
// that were not found.
func amountLine(a dto.AmountSet) string {
	switch {
	case a.Subtotal != "" && a.VAT != "" && a.Total != "":
		return fmt.Sprintf("Subtotal ฿%s + VAT ฿%s = Total ฿%s", a.Subtotal, a.VAT, a.Total)
	case a.Subtotal != "" && a.Total != "":
		return fmt.Sprintf("Subtotal ฿%s = Total ฿%s", a.Subtotal, a.Total)
	case a.Total != "":
		return "Total ฿" + a.Total
	case a.Subtotal != "":
		return "Subtotal ฿" + a.Subtotal
	}
	return ""
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// labeled renders "label: value", or "" when value is empty.
func labeled(label, value string) string {
	if value == "" {
		return ""
	}
	return label + ": " + value
}
